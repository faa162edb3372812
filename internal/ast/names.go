package ast

// The closed node-name vocabulary. Parser output never uses a name outside
// this list; content bodies stay raw text leaves until a body parser is
// plugged in.
const (
	NameWord       = "word"
	NameName       = "name"
	NameProperties = "properties"
	NameYomi       = "yomi"
	NameQyomi      = "qyomi"
	NameSpell      = "spell"
	NamePron       = "pron"
	NamePos        = "pos"
	NameDir        = "dir"
	NameFlag       = "flag"
	NameAuthor     = "author"
	NameDate       = "date"
	NameSource     = "source"
	NameValid      = "valid"
	NameExpire     = "expire"
	NameContents   = "contents"
)

// Attribute keys. Only spell and pron nodes carry lang; only author nodes
// carry operation.
const (
	AttrLang      = "lang"
	AttrOperation = "operation"
)
