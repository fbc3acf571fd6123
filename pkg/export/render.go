package export

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

type noteRenderer struct {
	quiz int
}

func (r *noteRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindCloze, r.renderCloze)
	reg.Register(KindHashtag, r.renderHashtag)
}

func (r *noteRenderer) renderCloze(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	cloze, ok := node.(*Cloze)
	if !ok {
		return ast.WalkContinue, nil
	}

	if cloze.Index == r.quiz {
		_, _ = w.WriteString(`<span class="cloze cloze-hidden">`)
		_, _ = w.Write(util.EscapeHTML(cloze.Hint))
	} else {
		_, _ = w.WriteString(`<span class="cloze"`)
		if len(cloze.Hint) > 0 {
			_, _ = w.WriteString(` title="`)
			_, _ = w.Write(util.EscapeHTML(cloze.Hint))
			_ = w.WriteByte('"')
		}
		_ = w.WriteByte('>')
		_, _ = w.Write(util.EscapeHTML(cloze.Answer))
	}
	_, _ = w.WriteString("</span>")
	return ast.WalkSkipChildren, nil
}

func (r *noteRenderer) renderHashtag(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	tag, ok := node.(*Hashtag)
	if !ok {
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString(`<span class="hashtag">#`)
	_, _ = w.Write(util.EscapeHTML(tag.Tag))
	_, _ = w.WriteString("</span>")
	return ast.WalkSkipChildren, nil
}
