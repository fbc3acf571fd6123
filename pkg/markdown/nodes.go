// Package markdown defines the note grammar: a small Markdown dialect with
// note-taking extensions (clozes, question and answer blocks, summaries and
// hashtags), plus the default formatting and replacement tables that
// project it into visible text.
package markdown

import "github.com/yaklabco/commonplace/pkg/mdast"

// Node types produced by the note grammar, in addition to the core types
// in package mdast.
//
//nolint:gochecknoglobals // Registered once at package init.
var (
	Header        = mdast.NewNodeType("header")
	ThematicBreak = mdast.NewNodeType("thematic_break")

	CodeBlock    = mdast.NewNodeType("code_block")
	CodeLanguage = mdast.NewNodeType("code_language")

	QuestionAndAnswer = mdast.NewNodeType("question_and_answer")
	Question          = mdast.NewNodeType("question")
	Answer            = mdast.NewNodeType("answer")
	QnADelimiter      = mdast.NewNodeType("qna_delimiter")

	Summary          = mdast.NewNodeType("summary")
	SummaryDelimiter = mdast.NewNodeType("summary_delimiter")
	SummaryBody      = mdast.NewNodeType("summary_body")

	Blockquote = mdast.NewNodeType("blockquote")

	List                  = mdast.NewNodeType("list")
	ListItem              = mdast.NewNodeType("list_item")
	ListDelimiter         = mdast.NewNodeType("list_delimiter")
	UnorderedListOpening  = mdast.NewNodeType("unordered_list_opening")
	OrderedListNumber     = mdast.NewNodeType("ordered_list_number")
	OrderedListTerminator = mdast.NewNodeType("ordered_list_terminator")

	Emphasis       = mdast.NewNodeType("emphasis")
	StrongEmphasis = mdast.NewNodeType("strong_emphasis")
	Code           = mdast.NewNodeType("code")
	Hashtag        = mdast.NewNodeType("hashtag")

	Cloze       = mdast.NewNodeType("cloze")
	ClozeHint   = mdast.NewNodeType("cloze_hint")
	ClozeAnswer = mdast.NewNodeType("cloze_answer")

	Image      = mdast.NewNodeType("image")
	Link       = mdast.NewNodeType("link")
	LinkText   = mdast.NewNodeType("link_text")
	LinkTarget = mdast.NewNodeType("link_target")
)
