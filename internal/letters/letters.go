package letters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/spigell/visa-hunter/internal/ai"
	"github.com/spigell/visa-hunter/internal/jobs"
	"github.com/spigell/visa-hunter/internal/logger"
	"github.com/spigell/visa-hunter/internal/ranking"
)

const (
	// MaxPerRun limits how many letters a single run produces.
	MaxPerRun = 10

	defaultSignature = "Your Name"
	maxFilenameRunes = 50

	systemPrompt = "You are a career assistant. Write a professional one-page cover letter in plain text. " +
		"Do not use placeholders in square brackets and do not add a subject line."
)

// Writer produces cover letters, using the generator when one is configured.
type Writer struct {
	generator ai.Generator
	logger    *zap.Logger
	signature string
}

// NewWriter creates a writer. A nil generator makes every letter use the built-in template.
func NewWriter(generator ai.Generator, log *zap.Logger, signature string) *Writer {
	if log == nil {
		log = zap.NewNop()
	}
	if generator != nil {
		log = logger.WithCommonFields(log, generator.Provider(), generator.Model())
	}

	signature = strings.TrimSpace(signature)
	if signature == "" {
		signature = defaultSignature
	}

	return &Writer{generator: generator, logger: log, signature: signature}
}

// Write returns the letter text for a posting. It is never empty: generation failures
// fall back to the template.
func (w *Writer) Write(ctx context.Context, p *jobs.Posting, highlights string) string {
	if w.generator != nil {
		text, err := w.generator.GenerateContent(ctx, systemPrompt, Prompt(p, highlights))
		text = strings.TrimSpace(text)
		switch {
		case err != nil:
			w.logger.Warn("cover letter generation failed, using template",
				zap.String("title", p.Title),
				zap.String("company", p.Company),
				zap.Error(err),
			)
		case text == "":
			w.logger.Warn("cover letter generation returned nothing, using template",
				zap.String("title", p.Title),
			)
		default:
			return text
		}
	}

	return Fallback(p, highlights, w.signature)
}

// Prompt builds the generation request for a posting.
func Prompt(p *jobs.Posting, highlights string) string {
	var lines []string
	if title := strings.TrimSpace(p.Title); title != "" {
		lines = append(lines, fmt.Sprintf("Write a professional one-page cover letter for the role: %s.", title))
	} else {
		lines = append(lines, "Write a professional one-page cover letter.")
	}
	if company := strings.TrimSpace(p.Company); company != "" {
		lines = append(lines, fmt.Sprintf("Company: %s.", company))
	}
	if location := strings.TrimSpace(p.Location); location != "" {
		lines = append(lines, fmt.Sprintf("Location: %s.", location))
	}
	if highlights = strings.TrimSpace(highlights); highlights != "" {
		lines = append(lines, "Incorporate these candidate highlights:", highlights)
	}
	return strings.Join(lines, "\n")
}

// Fallback is the template letter used without a generator.
func Fallback(p *jobs.Posting, highlights, signature string) string {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = "advertised"
	}
	if signature = strings.TrimSpace(signature); signature == "" {
		signature = defaultSignature
	}

	var lines []string
	if company := strings.TrimSpace(p.Company); company != "" {
		lines = append(lines, fmt.Sprintf("Dear Hiring Team at %s,", company))
	} else {
		lines = append(lines, "Dear Hiring Team,")
	}
	lines = append(lines, "", fmt.Sprintf("I am writing to express my interest in the %s role.", title))
	if highlights = strings.TrimSpace(highlights); highlights != "" {
		lines = append(lines, "", "Key highlights from my background:", highlights)
	}
	lines = append(lines,
		"",
		"I believe my experience and skills align with the requirements and I would welcome the opportunity to discuss further.",
		"",
		"Sincerely,",
		"",
		signature,
	)

	return strings.Join(lines, "\n")
}

// Save writes a letter as <number>_<title>.txt into dir and returns the path.
func Save(dir string, number int, title, text string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create letters directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%04d_%s.txt", number, SanitizeFilename(title)))
	if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("write cover letter: %w", err)
	}

	return path, nil
}

// SanitizeFilename keeps letters, digits, '-' and '_', turning whitespace into '_'.
func SanitizeFilename(s string) string {
	var b strings.Builder
	count := 0
	lastUnderscore := false
	for _, r := range strings.TrimSpace(s) {
		if count >= maxFilenameRunes {
			break
		}
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		case unicode.IsSpace(r) || r == '_' || r == '/':
			if lastUnderscore || b.Len() == 0 {
				continue
			}
			b.WriteRune('_')
			lastUnderscore = true
		default:
			continue
		}
		count++
	}

	name := strings.Trim(b.String(), "_")
	if name == "" {
		return "untitled"
	}
	return name
}

// Batch writes letters for the first limit postings (capped at MaxPerRun) and returns the
// identities of postings that got one.
func (w *Writer) Batch(ctx context.Context, dir string, items []*ranking.Scored, highlights string, limit int) (map[string]struct{}, error) {
	if limit <= 0 || limit > MaxPerRun {
		limit = MaxPerRun
	}

	written := make(map[string]struct{})
	for i, item := range items {
		if i >= limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return written, err
		}

		text := w.Write(ctx, &item.Posting, highlights)
		path, err := Save(dir, i+1, item.Title, text)
		if err != nil {
			return written, err
		}

		written[item.Key()] = struct{}{}
		w.logger.Info("cover letter saved", zap.String("path", path), zap.String("title", item.Title))
	}

	return written, nil
}
