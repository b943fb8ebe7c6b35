package lexer

// TokenType enumerates every token the Lexer can emit (spec §4.4).
type TokenType int

const (
	Spacing TokenType = iota + 1
	Comment
	LineBreak
	Indentation

	MetaName
	RegularName
	TextName
	NamePathSeparator
	NameValueSeparator

	SectionMapOpen
	SectionMapClose
	SectionListOpen
	SectionListClose

	ValueListSeparator
	MultiLineValueListSeparator

	Integer
	Boolean
	Float
	Text
	Code
	Date
	Time
	DateTime
	Bytes
	TimeDelta
	RegEx

	MultiLineTextOpen
	MultiLineTextClose
	MultiLineCodeOpen
	MultiLineCodeClose
	MultiLineCodeLanguage
	MultiLineRegexOpen
	MultiLineRegexClose
	MultiLineBytesOpen
	MultiLineBytesClose
	MultiLineBytesFormat

	MultiLineText
	MultiLineCode
	MultiLineRegex
	MultiLineBytes

	EndOfData
)

func (tt TokenType) String() string {
	return tokenTypeToDescription[tt]
}

func (tt TokenType) GoString() string {
	return tokenTypeToDescription[tt]
}

func init() {
	for tt := TokenType(1); tt != EndOfData; tt++ {
		if tokenTypeToDescription[tt] == "" {
			panic("lexer: you have not updated tokenTypeToDescription")
		}
	}
}

var tokenTypeToDescription = map[TokenType]string{
	Spacing:     "Spacing",
	Comment:     "Comment",
	LineBreak:   "LineBreak",
	Indentation: "Indentation",

	MetaName:           "MetaName",
	RegularName:        "RegularName",
	TextName:           "TextName",
	NamePathSeparator:  "NamePathSeparator",
	NameValueSeparator: "NameValueSeparator",

	SectionMapOpen:   "SectionMapOpen",
	SectionMapClose:  "SectionMapClose",
	SectionListOpen:  "SectionListOpen",
	SectionListClose: "SectionListClose",

	ValueListSeparator:          "ValueListSeparator",
	MultiLineValueListSeparator: "MultiLineValueListSeparator",

	Integer:   "Integer",
	Boolean:   "Boolean",
	Float:     "Float",
	Text:      "Text",
	Code:      "Code",
	Date:      "Date",
	Time:      "Time",
	DateTime:  "DateTime",
	Bytes:     "Bytes",
	TimeDelta: "TimeDelta",
	RegEx:     "RegEx",

	MultiLineTextOpen:     "MultiLineTextOpen",
	MultiLineTextClose:    "MultiLineTextClose",
	MultiLineCodeOpen:     "MultiLineCodeOpen",
	MultiLineCodeClose:    "MultiLineCodeClose",
	MultiLineCodeLanguage: "MultiLineCodeLanguage",
	MultiLineRegexOpen:    "MultiLineRegexOpen",
	MultiLineRegexClose:   "MultiLineRegexClose",
	MultiLineBytesOpen:    "MultiLineBytesOpen",
	MultiLineBytesClose:   "MultiLineBytesClose",
	MultiLineBytesFormat:  "MultiLineBytesFormat",

	MultiLineText:  "MultiLineText",
	MultiLineCode:  "MultiLineCode",
	MultiLineRegex: "MultiLineRegex",
	MultiLineBytes: "MultiLineBytes",

	EndOfData: "EndOfData",
}
