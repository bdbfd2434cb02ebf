package ingest

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
)

// extractMarkdown reads an mkdocs page, strips the YAML front matter and
// splits the body into sections at second-level headings.
func extractMarkdown(path string) ([]rawSection, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read markdown: %w", err)
	}

	body := stripFrontMatter(string(raw))

	var sections []rawSection
	current := &strings.Builder{}
	number := 1

	flush := func() {
		text := strings.TrimSpace(current.String())
		if text != "" {
			sections = append(sections, rawSection{Number: number, Content: text})
			number++
		}
		current.Reset()
	}

	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "## ") && current.Len() > 0 {
			flush()
		}
		current.WriteString(line)
		current.WriteString("\n")
	}
	flush()

	if len(sections) == 0 {
		return nil, errors.New("markdown file has no content")
	}
	return sections, nil
}

func stripFrontMatter(body string) string {
	if !strings.HasPrefix(body, "---\n") {
		return body
	}
	rest := body[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return body
	}
	rest = rest[end+len("\n---"):]
	if idx := strings.Index(rest, "\n"); idx >= 0 {
		return rest[idx+1:]
	}
	return ""
}

func extractPDF(path string) ([]rawSection, error) {
	logger.Debug("extractPDF", "attempting extraction", path)
	f, err := pdf.Open(path)
	if err != nil {
		logger.Error("failed opening of pdf file")
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var sections []rawSection
	numPages := f.NumPage()
	logger.Debug("extractPDF", "number of pages", numPages)
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			// Log and continue with the other pages
			logger.Error("Error parsing page content", "Error", err)
			continue
		}

		sections = append(sections, rawSection{
			Number:  i,
			Content: content,
		})
	}
	return sections, nil
}

// extractDocxTxtRtf reads a .odt, .docx, .rtf or plaintext file.
func extractDocxTxtRtf(path string) ([]rawSection, error) {
	text, err := cat.File(path)
	if err != nil {
		logger.Error("Error extracting content from doc")
		return nil, fmt.Errorf("failed to extract docx: %w", err)
	}

	return []rawSection{
		{
			Number:  1,
			Content: text,
		},
	}, nil
}

func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(time.Second * 10):
		logger.Error("pageExtract timeout")
		return "", errors.New("timeout")
	}
}
