package models

// Language — трек конкурса. Выбирается участником один раз.
type Language string

const (
	LanguagePython Language = "python"
	LanguageC      Language = "c"
	LanguageJava   Language = "java"
)

func (l Language) Valid() bool {
	switch l {
	case LanguagePython, LanguageC, LanguageJava:
		return true
	}
	return false
}

func AllLanguages() []Language {
	return []Language{LanguagePython, LanguageC, LanguageJava}
}
