package markdown

import (
	"fmt"
	"sync"
	"unicode"

	"github.com/yaklabco/commonplace/pkg/mdast"
	"github.com/yaklabco/commonplace/pkg/packrat"
)

// Extension adds syntax to the grammar without changing the core rules.
type Extension struct {
	Name string

	// Block builds a block rule from the rule matching the inline content
	// of one line (up to, not including, its newline). Extension blocks are
	// tried in registration order after fenced code and before blockquotes.
	Block func(inlines packrat.Rule) packrat.Rule

	// Inline is tried after code spans and before images, links and text.
	Inline packrat.Rule
}

// DefaultExtensions returns the note-taking extensions: question and answer
// blocks, summaries and clozes.
func DefaultExtensions() []Extension {
	return []Extension{
		QuestionAndAnswerExtension(),
		SummaryExtension(),
		ClozeExtension(),
	}
}

// ExtensionNames lists the names accepted by GrammarFor.
func ExtensionNames() []string {
	defaults := DefaultExtensions()
	names := make([]string, len(defaults))
	for i, ext := range defaults {
		names[i] = ext.Name
	}
	return names
}

// GrammarFor returns a grammar with the named extensions, in the order
// given. A nil slice selects the default grammar; an empty one selects
// plain Markdown.
func GrammarFor(names []string) (packrat.Rule, error) {
	if names == nil {
		return Grammar(), nil
	}
	known := make(map[string]Extension)
	for _, ext := range DefaultExtensions() {
		known[ext.Name] = ext
	}
	extensions := make([]Extension, 0, len(names))
	for _, name := range names {
		ext, ok := known[name]
		if !ok {
			return nil, fmt.Errorf("unknown grammar extension %q", name)
		}
		extensions = append(extensions, ext)
	}
	return NewGrammar(extensions...), nil
}

//nolint:gochecknoglobals // Default grammar, built on first use and shared.
var (
	defaultGrammar     packrat.Rule
	defaultGrammarOnce sync.Once
)

// Grammar returns the default note grammar. The rule is safe to share
// between parsers.
func Grammar() packrat.Rule {
	defaultGrammarOnce.Do(func() {
		defaultGrammar = NewGrammar(DefaultExtensions()...)
	})
	return defaultGrammar
}

//nolint:gochecknoglobals // Immutable character classes.
var (
	newlineSet    = packrat.NewCharSet("\n")
	spaceSet      = packrat.NewCharSet(" \t")
	digitSet      = packrat.CharRange('0', '9')
	inlineStopSet = packrat.NewCharSet("*_`?![# \t\n")
)

func newline() packrat.Rule {
	return packrat.Literal("\n")
}

func lineEnd() packrat.Rule {
	return packrat.Choice(newline(), packrat.EndOfInput())
}

// softTab is the run of spaces separating a block marker from its content.
func softTab() packrat.Rule {
	return packrat.As(packrat.Run(spaceSet, 1), mdast.Tab)
}

func delimiter(s string) packrat.Rule {
	return packrat.As(packrat.Literal(s), mdast.Delimiter)
}

func isTagUnit(u uint16) bool {
	switch {
	case u == '_' || u == '-' || u == '/':
		return true
	case u >= 0xD800 && u <= 0xDFFF:
		return true
	}
	r := rune(u)
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func hashtag() packrat.Rule {
	return packrat.As(packrat.Seq(
		packrat.Literal("#"),
		packrat.OneOrMore(packrat.Satisfy("tag", isTagUnit)),
	), Hashtag)
}

// delimited matches open, a non-empty run of content excluding stop and
// newlines, then close.
func delimited(nodeType mdast.NodeType, open, closing, stop string) packrat.Rule {
	return packrat.Wrap(packrat.Seq(
		delimiter(open),
		packrat.RunNot(packrat.NewCharSet(stop+"\n"), 1),
		delimiter(closing),
	), nodeType)
}

// bracketed matches prefix[label](target).
func bracketed(nodeType, labelType, targetType mdast.NodeType, prefix string, minLabel int) packrat.Rule {
	return packrat.Wrap(packrat.Seq(
		delimiter(prefix+"["),
		packrat.As(packrat.RunNot(packrat.NewCharSet("]\n"), minLabel), labelType),
		delimiter("]("),
		packrat.As(packrat.RunNot(packrat.NewCharSet(")\n"), 1), targetType),
		delimiter(")"),
	), nodeType)
}

// NewGrammar builds the note grammar with the given extensions.
func NewGrammar(extensions ...Extension) packrat.Rule {
	inlines := inlineRule(extensions)

	blank := packrat.Memoize(packrat.As(
		packrat.OneOrMore(packrat.Seq(packrat.Run(spaceSet, 0), newline())),
		mdast.BlankLine,
	))

	header := packrat.Memoize(packrat.Wrap(packrat.Seq(
		packrat.As(packrat.Repeat(packrat.Literal("#"), 1, 6), mdast.Delimiter),
		softTab(),
		inlines,
		packrat.Optional(newline()),
	), Header))

	thematicBreak := packrat.Memoize(packrat.As(packrat.Seq(
		packrat.Choice(packrat.Literal("---"), packrat.Literal("***"), packrat.Literal("___")),
		packrat.Run(packrat.NewCharSet("-*_"), 0),
		packrat.Run(spaceSet, 0),
		lineEnd(),
	), ThematicBreak))

	fence := packrat.Literal("```")
	codeBlock := packrat.Memoize(packrat.Wrap(packrat.Seq(
		packrat.As(fence, mdast.Delimiter),
		packrat.Optional(packrat.As(packrat.RunNot(packrat.NewCharSet("`\n"), 1), CodeLanguage)),
		newline(),
		packrat.ZeroOrMore(packrat.Seq(
			packrat.Not(fence),
			packrat.RunNot(newlineSet, 0),
			newline(),
		)),
		packrat.As(fence, mdast.Delimiter),
		packrat.Run(spaceSet, 0),
		lineEnd(),
	), CodeBlock))

	blockquote := packrat.Memoize(packrat.Wrap(packrat.OneOrMore(packrat.Seq(
		delimiter(">"),
		packrat.Optional(softTab()),
		inlines,
		packrat.Optional(newline()),
	)), Blockquote))

	list := packrat.Memoize(packrat.Choice(
		listRule(packrat.As(packrat.OneOf(packrat.NewCharSet("-*+")), UnorderedListOpening), inlines),
		listRule(packrat.Seq(
			packrat.As(packrat.Run(digitSet, 1), OrderedListNumber),
			packrat.As(packrat.OneOf(packrat.NewCharSet(".)")), OrderedListTerminator),
		), inlines),
	))

	blocks := []packrat.Rule{blank, header, thematicBreak, codeBlock}
	for _, ext := range extensions {
		if ext.Block != nil {
			blocks = append(blocks, packrat.Memoize(ext.Block(inlines)))
		}
	}
	blocks = append(blocks, blockquote, list)

	// A paragraph runs until a blank line or the start of another block.
	interrupt := packrat.Choice(blocks...)
	nonEmptyLine := packrat.Seq(packrat.Assert(packrat.NoneOf(newlineSet)), inlines, packrat.Optional(newline()))
	paragraph := packrat.Memoize(packrat.Wrap(packrat.Seq(
		nonEmptyLine,
		packrat.ZeroOrMore(packrat.Seq(packrat.Not(interrupt), nonEmptyLine)),
	), mdast.Paragraph))

	return packrat.Named("document", packrat.Wrap(packrat.Seq(
		packrat.ZeroOrMore(packrat.Choice(append(blocks, paragraph)...)),
		packrat.EndOfInput(),
	), mdast.Document))
}

func listRule(opening, inlines packrat.Rule) packrat.Rule {
	item := packrat.Wrap(packrat.Seq(
		packrat.Wrap(packrat.Seq(opening, softTab()), ListDelimiter),
		packrat.Wrap(packrat.Seq(inlines, packrat.Optional(newline())), mdast.Paragraph),
	), ListItem)
	return packrat.Wrap(packrat.OneOrMore(item), List)
}

// inlineRule matches the inline content of a single line, stopping before
// its newline. It always succeeds.
func inlineRule(extensions []Extension) packrat.Rule {
	items := []packrat.Rule{
		delimited(StrongEmphasis, "**", "**", "*"),
		delimited(StrongEmphasis, "__", "__", "_"),
		delimited(Emphasis, "*", "*", "*"),
		delimited(Emphasis, "_", "_", "_"),
		delimited(Code, "`", "`", "`"),
	}
	for _, ext := range extensions {
		if ext.Inline != nil {
			items = append(items, ext.Inline)
		}
	}
	items = append(items,
		bracketed(Image, LinkText, LinkTarget, "!", 0),
		bracketed(Link, LinkText, LinkTarget, "", 1),
		// Hashtags only start a line or follow whitespace.
		packrat.Seq(packrat.Run(spaceSet, 1), hashtag()),
		packrat.RunNot(inlineStopSet, 1),
		packrat.Run(spaceSet, 1),
		packrat.NoneOf(newlineSet),
	)

	return packrat.Named("inlines", packrat.Seq(
		packrat.Optional(hashtag()),
		packrat.ZeroOrMore(packrat.Choice(items...)),
	))
}

// QuestionAndAnswerExtension recognizes two-line flash cards:
//
//	Q: question
//	A: answer
func QuestionAndAnswerExtension() Extension {
	return Extension{
		Name: "question_and_answer",
		Block: func(inlines packrat.Rule) packrat.Rule {
			return packrat.Wrap(packrat.Seq(
				packrat.As(packrat.Literal("Q:"), QnADelimiter),
				packrat.Optional(softTab()),
				packrat.Wrap(inlines, Question),
				newline(),
				packrat.As(packrat.Literal("A:"), QnADelimiter),
				packrat.Optional(softTab()),
				packrat.Wrap(inlines, Answer),
				packrat.Optional(newline()),
			), QuestionAndAnswer)
		},
	}
}

// SummaryExtension recognizes a one-line "tl;dr:" summary.
func SummaryExtension() Extension {
	return Extension{
		Name: "summary",
		Block: func(inlines packrat.Rule) packrat.Rule {
			return packrat.Wrap(packrat.Seq(
				packrat.As(packrat.Choice(packrat.Literal("tl;dr:"), packrat.Literal("Summary:")), SummaryDelimiter),
				packrat.Optional(softTab()),
				packrat.Wrap(inlines, SummaryBody),
				packrat.Optional(newline()),
			), Summary)
		},
	}
}

// ClozeExtension recognizes ?[hint](answer).
func ClozeExtension() Extension {
	return Extension{
		Name:   "cloze",
		Inline: bracketed(Cloze, ClozeHint, ClozeAnswer, "?", 0),
	}
}
