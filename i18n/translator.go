package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "literal" or "field").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			return "型が不正です"
		case "invalid_format":
			return "リテラルの形式が不正です"
		case "invalid_state":
			return "状態が不正です"
		case "unknown_field":
			return "未知のフィールドです"
		case "unknown_kind":
			return "未知のフィールド種別です"
		case "conflict":
			return "リビジョンが競合しています"
		case "not_found":
			return "ドキュメントが見つかりません"
		case "parse_error":
			return "解析エラー"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			return "invalid type"
		case "invalid_format":
			return "malformed literal"
		case "invalid_state":
			return "invalid state"
		case "unknown_field":
			return "unknown field"
		case "unknown_kind":
			return "unknown field kind"
		case "conflict":
			return "revision conflict"
		case "not_found":
			return "document not found"
		case "parse_error":
			return "parse error"
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

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
