// Package report renders synthesized scripts into the files handed to creators.
package report

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName    = "Times New Roman"
	bodySize    = 13
	sectionSize = 15
	titleSize   = 16
)

var (
	reSection  = regexp.MustCompile(`^\[([A-Z][A-Z ]+)\]$|^#{1,6}\s+(.+)$`)
	reNote     = regexp.MustCompile(`^[\-\*•]\s+(.+)$`)
	reEmphasis = regexp.MustCompile(`\*\*(.+?)\*\*`)
)

type blockKind int

const (
	blockSection blockKind = iota
	blockNote
	blockLine
)

// block is one rendered line of a script.
type block struct {
	kind  blockKind
	label string
	text  string
}

// span is a run of text with a single weight.
type span struct {
	text string
	bold bool
}

// Markdown wraps script in a titled markdown document.
func Markdown(title, script string, at time.Time) string {
	return fmt.Sprintf("# %s\n\n_%s_\n\n%s\n", title, at.Format("2006-01-02 15:04"), strings.TrimSpace(script))
}

// WriteDocx renders script as a styled docx at outputPath. Lines such as
// "[REMAKE SCRIPT]" become section headings and "- Label: value" delivery
// notes get a bold label.
func WriteDocx(title, script, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("new document: %w", err)
	}

	addRun(doc.AddParagraph(""), title, titleSize, true)

	for _, b := range parseScript(script) {
		p := doc.AddParagraph("")
		switch b.kind {
		case blockSection:
			addRun(p, b.text, sectionSize, true)
		case blockNote:
			addRun(p, "• ", bodySize, false)
			if b.label != "" {
				addRun(p, b.label+": ", bodySize, true)
			}
			addSpans(p, b.text)
		default:
			addSpans(p, b.text)
		}
	}

	if err := doc.SaveTo(outputPath); err != nil {
		return fmt.Errorf("save docx: %w", err)
	}
	return nil
}

func parseScript(script string) []block {
	var blocks []block
	for _, line := range strings.Split(script, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Trim(line, "-━") == "" {
			continue
		}

		if m := reSection.FindStringSubmatch(line); m != nil {
			heading := m[1]
			if heading == "" {
				heading = m[2]
			}
			blocks = append(blocks, block{kind: blockSection, text: plain(heading)})
			continue
		}

		if m := reNote.FindStringSubmatch(line); m != nil {
			label, value, ok := strings.Cut(m[1], ":")
			if !ok || strings.TrimSpace(value) == "" || len(label) > 40 {
				blocks = append(blocks, block{kind: blockNote, text: m[1]})
				continue
			}
			blocks = append(blocks, block{kind: blockNote, label: plain(label), text: strings.TrimSpace(value)})
			continue
		}

		blocks = append(blocks, block{kind: blockLine, text: line})
	}
	return blocks
}

// emphasis splits text on **bold** markers.
func emphasis(text string) []span {
	var spans []span
	last := 0
	for _, loc := range reEmphasis.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] > last {
			spans = append(spans, span{text: text[last:loc[0]]})
		}
		spans = append(spans, span{text: text[loc[2]:loc[3]], bold: true})
		last = loc[1]
	}
	if last < len(text) {
		spans = append(spans, span{text: text[last:]})
	}
	return spans
}

func plain(s string) string {
	return strings.TrimSpace(strings.NewReplacer("**", "", "`", "").Replace(s))
}

func addSpans(p *docx.Paragraph, text string) {
	for _, s := range emphasis(text) {
		addRun(p, strings.ReplaceAll(s.text, "`", ""), bodySize, s.bold)
	}
}

func addRun(p *docx.Paragraph, text string, size uint64, bold bool) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
