package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "schema" or "field").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "config_error":
			return "オプションが不正です"
		case "duplicate_name":
			return "フィールド名が重複しています"
		case "reserved_name":
			return "予約済みの名前です"
		case "unresolved_reference":
			return "参照先スキーマを解決できません"
		case "schema_error":
			return "スキーマ定義が不正です"
		case "parse_error":
			return "解析エラー"
		case "format_error":
			return "整形エラー"
		}
	default: // "en"
		switch code {
		case "config_error":
			return "invalid option"
		case "duplicate_name":
			return "duplicate field name"
		case "reserved_name":
			return "reserved name"
		case "unresolved_reference":
			return "unresolvable schema reference"
		case "schema_error":
			return "invalid schema declaration"
		case "parse_error":
			return "parse error"
		case "format_error":
			return "format error"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T is shorthand to fetch a message from the current Translator.
func T(code string, data map[string]string) string {
	return currentTranslator.Message(code, data)
}
