// Package testkit holds structural checks shared by tests and fuzzing.
package testkit

import (
	"fmt"

	"dv6/internal/ast"
)

var propertyNames = map[string]bool{
	ast.NameYomi:   true,
	ast.NameQyomi:  true,
	ast.NameSpell:  true,
	ast.NamePron:   true,
	ast.NamePos:    true,
	ast.NameDir:    true,
	ast.NameFlag:   true,
	ast.NameAuthor: true,
	ast.NameValid:  true,
	ast.NameExpire: true,
}

var authorChildNames = map[string]bool{
	ast.NameDate:   true,
	ast.NameName:   true,
	ast.NameSource: true,
}

// CheckDocumentInvariants verifies the structural contract of a parsed
// document, whatever the input looked like:
//  1. every word starts with the fixed skeleton: a name, a properties and a
//     contents node, in that order
//  2. the name node holds exactly one text leaf
//  3. property nodes come from the closed vocabulary; lang appears only on
//     spell and pron, operation only on author and only as A, R or I
func CheckDocumentInvariants(doc *ast.Document) error {
	if doc == nil {
		return fmt.Errorf("nil document")
	}
	for i, w := range doc.Words {
		if err := checkWord(w); err != nil {
			return fmt.Errorf("word %d: %w", i, err)
		}
	}
	return nil
}

func checkWord(w *ast.Node) error {
	if w == nil {
		return fmt.Errorf("nil word node")
	}
	if w.Name != ast.NameWord {
		return fmt.Errorf("word node named %q", w.Name)
	}
	if len(w.Attrs) != 0 {
		return fmt.Errorf("word node carries attributes: %v", w.Attrs)
	}
	if len(w.Children) < 3 {
		return fmt.Errorf("word node has %d children, want at least 3", len(w.Children))
	}

	name, ok := w.Children[0].(*ast.Node)
	if !ok || name.Name != ast.NameName {
		return fmt.Errorf("first child is not a name node")
	}
	if err := checkName(name); err != nil {
		return err
	}

	props, ok := w.Children[1].(*ast.Node)
	if !ok || props.Name != ast.NameProperties {
		return fmt.Errorf("second child is not a properties node")
	}
	if err := checkProperties(props); err != nil {
		return err
	}

	contents, ok := w.Children[2].(*ast.Node)
	if !ok || contents.Name != ast.NameContents {
		return fmt.Errorf("third child is not a contents node")
	}
	if len(contents.Attrs) != 0 {
		return fmt.Errorf("contents node carries attributes: %v", contents.Attrs)
	}

	// Children past the skeleton come from the extended-region parser and
	// have no fixed shape.
	return nil
}

func checkName(name *ast.Node) error {
	if len(name.Attrs) != 0 {
		return fmt.Errorf("name node carries attributes: %v", name.Attrs)
	}
	if len(name.Children) != 1 {
		return fmt.Errorf("name node has %d children, want 1", len(name.Children))
	}
	if _, ok := name.Children[0].(ast.Text); !ok {
		return fmt.Errorf("name child is not a text leaf")
	}
	return nil
}

func checkProperties(props *ast.Node) error {
	if len(props.Attrs) != 0 {
		return fmt.Errorf("properties node carries attributes: %v", props.Attrs)
	}
	for _, c := range props.Children {
		p, ok := c.(*ast.Node)
		if !ok {
			return fmt.Errorf("properties child is a text leaf")
		}
		if !propertyNames[p.Name] {
			return fmt.Errorf("unknown property node %q", p.Name)
		}

		lang, hasLang := p.Attr(ast.AttrLang)
		wantsLang := p.Name == ast.NameSpell || p.Name == ast.NamePron
		if wantsLang != hasLang {
			return fmt.Errorf("property %q lang attribute mismatch", p.Name)
		}
		if hasLang && lang == "" {
			return fmt.Errorf("property %q has an empty lang", p.Name)
		}

		op, hasOp := p.Attr(ast.AttrOperation)
		if (p.Name == ast.NameAuthor) != hasOp {
			return fmt.Errorf("property %q operation attribute mismatch", p.Name)
		}
		if hasOp && op != "A" && op != "R" && op != "I" {
			return fmt.Errorf("author operation %q out of range", op)
		}

		if p.Name == ast.NameAuthor {
			if err := checkAuthor(p); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkAuthor(author *ast.Node) error {
	for _, c := range author.Children {
		n, ok := c.(*ast.Node)
		if !ok {
			return fmt.Errorf("author child is a text leaf")
		}
		if !authorChildNames[n.Name] {
			return fmt.Errorf("unknown author child %q", n.Name)
		}
		if len(n.Children) != 1 {
			return fmt.Errorf("author %s node has %d children, want 1", n.Name, len(n.Children))
		}
		if _, ok := n.Children[0].(ast.Text); !ok {
			return fmt.Errorf("author %s child is not a text leaf", n.Name)
		}
	}
	return nil
}
