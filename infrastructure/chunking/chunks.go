// Package chunking splits lecture markdown into overlapping chunks sized
// for embedding.
package chunking

import (
	"fmt"
	"strings"
)

// Params configures the chunking algorithm. Size, Overlap, and MinSize are
// measured in runes.
type Params struct {
	Size    int
	Overlap int
	MinSize int
}

// DefaultParams returns defaults tuned for lecture transcripts.
func DefaultParams() Params {
	return Params{
		Size:    1200,
		Overlap: 150,
		MinSize: 50,
	}
}

// Chunker splits lecture content on paragraph boundaries, falling back to
// line and rune boundaries for oversized paragraphs:
//   - Tier 1: accumulate whole paragraphs until the next would exceed Size
//   - Tier 2: for paragraphs exceeding Size, accumulate lines instead
//   - Tier 3: for lines exceeding Size, split on rune boundaries
type Chunker struct {
	params Params
}

// NewChunker creates a Chunker. Overlap must be smaller than Size.
func NewChunker(params Params) (*Chunker, error) {
	if params.Size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", params.Size)
	}
	if params.Overlap >= params.Size {
		return nil, fmt.Errorf("overlap (%d) must be less than size (%d)", params.Overlap, params.Size)
	}
	return &Chunker{params: params}, nil
}

// Chunk splits lecture content into chunks. Chunks shorter than MinSize are
// dropped; whitespace-only input yields no chunks.
func (c *Chunker) Chunk(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	var chunks []string
	for _, piece := range c.accumulate(splitParagraphs(text), "\n\n") {
		if runeLen(piece) <= c.params.Size {
			chunks = append(chunks, piece)
			continue
		}
		// Tier 2: the paragraph alone exceeds Size.
		for _, line := range c.accumulate(splitLines(piece), "\n") {
			if runeLen(line) <= c.params.Size {
				chunks = append(chunks, line)
				continue
			}
			// Tier 3.
			chunks = append(chunks, c.splitRunes(line)...)
		}
	}

	kept := chunks[:0]
	for _, chunk := range chunks {
		if runeLen(chunk) >= c.params.MinSize {
			kept = append(kept, chunk)
		}
	}
	return kept, nil
}

// accumulate greedily joins parts into pieces of at most Size runes,
// carrying trailing parts within the overlap budget into the next piece.
// A part that alone exceeds Size is emitted as its own piece for the next
// tier to handle.
func (c *Chunker) accumulate(parts []string, sep string) []string {
	var pieces []string
	var acc []string
	accRunes := 0

	flush := func() {
		if accRunes == 0 {
			return
		}
		pieces = append(pieces, strings.Join(acc, sep))
		acc, accRunes = c.overlapTail(acc)
	}

	for _, part := range parts {
		partRunes := runeLen(part)

		if partRunes > c.params.Size {
			flush()
			acc, accRunes = nil, 0
			pieces = append(pieces, part)
			continue
		}

		if accRunes+partRunes > c.params.Size && accRunes > 0 {
			flush()
		}
		acc = append(acc, part)
		accRunes += partRunes
	}

	if accRunes > 0 {
		joined := strings.Join(acc, sep)
		// The carried overlap alone adds nothing new.
		if len(pieces) == 0 || !strings.HasSuffix(pieces[len(pieces)-1], joined) {
			pieces = append(pieces, joined)
		}
	}
	return pieces
}

// overlapTail walks backward through parts and returns the trailing parts
// whose total rune count fits the overlap budget.
func (c *Chunker) overlapTail(parts []string) ([]string, int) {
	if c.params.Overlap == 0 {
		return nil, 0
	}
	total := 0
	start := len(parts)
	for i := len(parts) - 1; i >= 0; i-- {
		r := runeLen(parts[i])
		if total+r > c.params.Overlap {
			break
		}
		total += r
		start = i
	}
	if start == len(parts) {
		return nil, 0
	}
	carried := make([]string, len(parts)-start)
	copy(carried, parts[start:])
	return carried, total
}

// splitRunes cuts content into windows of at most Size runes, stepping by
// Size minus Overlap.
func (c *Chunker) splitRunes(content string) []string {
	runes := []rune(content)
	step := c.params.Size - c.params.Overlap
	var result []string
	for i := 0; i < len(runes); i += step {
		end := min(i+c.params.Size, len(runes))
		window := runes[i:end]
		if i > 0 && len(window) <= c.params.Overlap {
			break
		}
		result = append(result, string(window))
	}
	return result
}

// splitParagraphs splits on blank lines, dropping empty segments.
func splitParagraphs(content string) []string {
	var paragraphs []string
	for _, part := range strings.Split(content, "\n\n") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}
	return paragraphs
}

// splitLines splits a paragraph into non-empty trimmed lines.
func splitLines(content string) []string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func runeLen(s string) int {
	return len([]rune(s))
}
