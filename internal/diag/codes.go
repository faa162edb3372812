package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Line splitting
	LinInfo               Code = 1000
	LinContinuationIndent Code = 1001
	LinIndentJump         Code = 1002

	// Entry structure
	WordInfo  Code = 2000
	WordEmpty Code = 2001

	// Properties
	PropInfo         Code = 3000
	PropMalformed    Code = 3001
	PropNested       Code = 3002
	PropMissingLang  Code = 3003
	PropDirShape     Code = 3004
	PropAuthorOp     Code = 3005
	PropAuthorDate   Code = 3006
	PropAuthorFields Code = 3007
	PropValidShape   Code = 3008
	PropExpireShape  Code = 3009
	PropUnknown      Code = 3010
	PropFlagList     Code = 3011

	// Contents
	ContentInfo      Code = 4000
	ContentMalformed Code = 4001

	// I/O
	IOLoadFileError Code = 5001
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	LinInfo:               "Line information",
	LinContinuationIndent: "Continuation indent mismatch",
	LinIndentJump:         "Indent rises by two or more levels",
	WordInfo:              "Word information",
	WordEmpty:             "Word has no content",
	PropInfo:              "Property information",
	PropMalformed:         "Malformed property line",
	PropNested:            "Property line must not have children",
	PropMissingLang:       "Missing language prefix",
	PropDirShape:          "Malformed directory path",
	PropAuthorOp:          "Unknown author operation",
	PropAuthorDate:        "Malformed author date",
	PropAuthorFields:      "Too many author fields",
	PropValidShape:        "Malformed valid period",
	PropExpireShape:       "Malformed expire date",
	PropUnknown:           "Unknown property",
	PropFlagList:          "Flag list warning",
	ContentInfo:           "Content information",
	ContentMalformed:      "Malformed content line",
	IOLoadFileError:       "I/O load file error",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LIN%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("WRD%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("PRP%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("CNT%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
