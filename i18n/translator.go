package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
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
		case "required":
			return "必須プロパティが不足しています"
		case "unknown_key":
			return "未知のキーです"
		case "too_short":
			return "短すぎます"
		case "too_long":
			return "長すぎます"
		case "invalid_enum":
			return "許可されていない値です"
		case "invalid_literal":
			return "リテラル値が一致しません"
		case "invalid_format":
			return "書式が不正です"
		case "discriminator_missing":
			return "判別キーが不足しています"
		case "discriminator_unknown":
			return "未知のバリアントです"
		case "union_no_match":
			return "どのユニオン候補にも一致しません"
		case "intersection_conflict":
			return "交差結果をマージできません"
		case "parse_error":
			return "解析エラー"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			return "invalid type"
		case "required":
			return "required property missing"
		case "unknown_key":
			return "unknown key"
		case "too_short":
			return "too short"
		case "too_long":
			return "too long"
		case "invalid_enum":
			return "value not allowed"
		case "invalid_literal":
			return "literal value mismatch"
		case "invalid_format":
			return "invalid format"
		case "discriminator_missing":
			return "discriminator missing"
		case "discriminator_unknown":
			return "unknown variant"
		case "union_no_match":
			return "no union option matched"
		case "intersection_conflict":
			return "intersection results could not be merged"
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
