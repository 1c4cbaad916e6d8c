// Package hocr reads Tesseract hOCR output as recognized text fragments.
//
// hOCR is HTML whose elements carry OCR structure in their class attribute
// (ocr_page, ocr_line, ocrx_word) and geometry in their title attribute
// ("bbox x0 y0 x1 y1; x_wconf 93"). Each text line becomes one fragment
// positioned at the top-left corner of its bounding box, so a page that was
// recognized once can be segmented again without rerunning OCR.
package hocr

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/samplegit/quiz-app/text"
)

// lineClasses are the hOCR classes that hold one line of text
var lineClasses = []string{"ocr_line", "ocr_header", "ocr_caption", "ocr_textfloat"}

// BBox is an hOCR bounding box in pixels
type BBox struct {
	X0, Y0, X1, Y1 int
}

// Properties holds the parsed title attribute of an hOCR element
type Properties struct {
	BBox    BBox
	HasBBox bool

	// Confidence is the x_wconf value (0 to 100); -1 when absent
	Confidence float64
}

// ParseTitle parses an hOCR title attribute such as
// "bbox 10 20 110 40; x_wconf 91".
func ParseTitle(title string) Properties {
	props := Properties{Confidence: -1}
	for _, part := range strings.Split(title, ";") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "bbox":
			if len(fields) != 5 {
				continue
			}
			var coords [4]int
			ok := true
			for i := range coords {
				v, err := strconv.Atoi(fields[i+1])
				if err != nil {
					ok = false
					break
				}
				coords[i] = v
			}
			if ok {
				props.BBox = BBox{coords[0], coords[1], coords[2], coords[3]}
				props.HasBBox = true
			}
		case "x_wconf":
			if len(fields) == 2 {
				if v, err := strconv.ParseFloat(fields[1], 64); err == nil {
					props.Confidence = v
				}
			}
		}
	}
	return props
}

// Parse reads an hOCR document and returns one fragment per text line.
// Lines of the first ocr_page are numbered page, later ocr_page elements
// page+1, page+2 and so on. Lines without a bbox are skipped.
func Parse(r io.Reader, page int) ([]text.Fragment, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse hOCR: %w", err)
	}

	p := &parser{page: page - 1}
	p.walk(doc)
	if !p.sawPage {
		// bare fragment without an ocr_page wrapper
		for i := range p.fragments {
			p.fragments[i].Page = page
		}
	}
	return p.fragments, nil
}

// ParseFile reads an hOCR file from disk
func ParseFile(path string, page int) ([]text.Fragment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	frags, err := Parse(f, page)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return frags, nil
}

type parser struct {
	page      int
	sawPage   bool
	fragments []text.Fragment
}

func (p *parser) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch {
		case hasClass(n, "ocr_page"):
			p.sawPage = true
			p.page++
		case hasAnyClass(n, lineClasses):
			p.addLine(n)
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c)
	}
}

func (p *parser) addLine(n *html.Node) {
	props := ParseTitle(getAttr(n, "title"))
	if !props.HasBBox {
		return
	}

	var words []string
	var confSum float64
	var confN int
	collectWords(n, &words, &confSum, &confN)

	var line string
	if len(words) > 0 {
		line = strings.Join(words, " ")
	} else {
		line = strings.Join(strings.Fields(getTextContent(n)), " ")
	}
	if line == "" {
		return
	}

	conf := props.Confidence
	if confN > 0 {
		conf = confSum / float64(confN)
	}
	if conf < 0 {
		conf = 0
	}

	p.fragments = append(p.fragments, text.Fragment{
		Page:       max(p.page, 1),
		Row:        float64(props.BBox.Y0),
		Column:     float64(props.BBox.X0),
		Text:       line,
		Confidence: conf / 100,
	})
}

// collectWords gathers ocrx_word texts in document order
func collectWords(n *html.Node, words *[]string, confSum *float64, confN *int) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if hasClass(c, "ocrx_word") {
			w := strings.Join(strings.Fields(getTextContent(c)), " ")
			if w == "" {
				continue
			}
			*words = append(*words, w)
			if props := ParseTitle(getAttr(c, "title")); props.Confidence >= 0 {
				*confSum += props.Confidence
				*confN++
			}
			continue
		}
		collectWords(c, words, confSum, confN)
	}
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func hasAnyClass(n *html.Node, classes []string) bool {
	for _, class := range classes {
		if hasClass(n, class) {
			return true
		}
	}
	return false
}

func getTextContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
