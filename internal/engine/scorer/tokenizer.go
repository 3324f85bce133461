package scorer

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// pairBatch holds tokenized premise/hypothesis pairs ready for ONNX
// inference. All slices are flat: [batchSize * seqLen].
type pairBatch struct {
	inputIDs      []int64
	attentionMask []int64
	tokenTypeIDs  []int64
	batchSize     int64
	seqLen        int64
}

// tokenizer performs BERT-style WordPiece tokenization over sentence pairs.
type tokenizer struct {
	vocab *vocab
}

// newTokenizer creates a tokenizer from a vocab.txt file.
func newTokenizer(vocabPath string) (*tokenizer, error) {
	v, err := loadVocab(vocabPath)
	if err != nil {
		return nil, err
	}
	return &tokenizer{vocab: v}, nil
}

// tokenizePairs pairs one premise with each hypothesis and packs the batch
// into flat slices padded to the longest pair (capped at maxLen). The pair
// layout is [CLS] premise [SEP] hypothesis [SEP], with token type 1 on the
// hypothesis segment.
func (t *tokenizer) tokenizePairs(premise string, hypotheses []string, maxLen int) pairBatch {
	n := len(hypotheses)
	if n == 0 {
		return pairBatch{}
	}

	premTokens := t.wordpiece(t.basicTokenize(premise))

	type seq struct {
		ids     []int64
		typeIDs []int64
	}
	seqs := make([]seq, n)
	maxSeq := 0

	for i, hyp := range hypotheses {
		hypTokens := t.wordpiece(t.basicTokenize(hyp))
		prem, hyp := truncatePair(premTokens, hypTokens, maxLen-3)

		// [CLS] prem [SEP] hyp [SEP]
		total := len(prem) + len(hyp) + 3
		ids := make([]int64, 0, total)
		typeIDs := make([]int64, total)

		ids = append(ids, t.vocab.clsID)
		for _, tok := range prem {
			ids = append(ids, t.vocab.lookup(tok))
		}
		ids = append(ids, t.vocab.sepID)
		for _, tok := range hyp {
			ids = append(ids, t.vocab.lookup(tok))
		}
		ids = append(ids, t.vocab.sepID)
		for j := len(prem) + 2; j < total; j++ {
			typeIDs[j] = 1
		}

		seqs[i] = seq{ids: ids, typeIDs: typeIDs}
		if total > maxSeq {
			maxSeq = total
		}
	}

	batchSize := int64(n)
	seqLen := int64(maxSeq)
	flat := batchSize * seqLen

	inputIDs := make([]int64, flat)
	attentionMask := make([]int64, flat)
	tokenTypeIDs := make([]int64, flat)

	for i, s := range seqs {
		offset := int64(i) * seqLen
		copy(inputIDs[offset:], s.ids)
		copy(tokenTypeIDs[offset:], s.typeIDs)
		for j := range s.ids {
			attentionMask[offset+int64(j)] = 1
		}
		// Remaining positions stay 0 (padID=0, mask=0, typeIDs=0).
	}

	return pairBatch{
		inputIDs:      inputIDs,
		attentionMask: attentionMask,
		tokenTypeIDs:  tokenTypeIDs,
		batchSize:     batchSize,
		seqLen:        seqLen,
	}
}

// truncatePair trims the pair to at most budget tokens combined, removing
// from the end of the longer sequence first (longest-first truncation).
func truncatePair(prem, hyp []string, budget int) ([]string, []string) {
	for len(prem)+len(hyp) > budget {
		if len(prem) >= len(hyp) {
			prem = prem[:len(prem)-1]
		} else {
			hyp = hyp[:len(hyp)-1]
		}
	}
	return prem, hyp
}

// basicTokenize applies BERT's BasicTokenizer: clean, lowercase, strip
// accents, split on whitespace and punctuation, handle CJK characters.
func (t *tokenizer) basicTokenize(text string) []string {
	text = cleanText(text)
	text = tokenizeChineseChars(text)
	text = strings.ToLower(text)
	text = stripAccents(text)

	// Split on whitespace, then split each token on punctuation.
	var tokens []string
	for _, word := range strings.Fields(text) {
		tokens = append(tokens, splitOnPunctuation(word)...)
	}
	return tokens
}

// wordpiece applies the WordPiece algorithm to a list of basic tokens.
func (t *tokenizer) wordpiece(tokens []string) []string {
	var result []string
	for _, token := range tokens {
		if len(token) == 0 {
			continue
		}
		result = append(result, t.wordpieceToken(token)...)
	}
	return result
}

// wordpieceToken decomposes a single basic token into WordPiece subwords.
func (t *tokenizer) wordpieceToken(token string) []string {
	runes := []rune(token)
	if len(runes) > 200 {
		return []string{"[UNK]"}
	}

	var subTokens []string
	start := 0
	for start < len(runes) {
		end := len(runes)
		found := false
		for end > start {
			sub := string(runes[start:end])
			if start > 0 {
				sub = "##" + sub
			}
			if t.vocab.contains(sub) {
				subTokens = append(subTokens, sub)
				found = true
				break
			}
			end--
		}
		if !found {
			return []string{"[UNK]"}
		}
		start = end
	}
	return subTokens
}

// cleanText removes control characters and replaces whitespace with spaces.
func cleanText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == 0 || r == 0xFFFD || isControl(r) {
			continue
		}
		if isWhitespace(r) {
			b.WriteRune(' ')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// stripAccents removes combining diacritical marks after NFD normalization.
func stripAccents(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range norm.NFD.String(text) {
		if unicode.In(r, unicode.Mn) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// tokenizeChineseChars adds spaces around CJK Unified Ideographs so they
// become individual tokens.
func tokenizeChineseChars(text string) string {
	var b strings.Builder
	b.Grow(len(text) + len(text)/4)
	for _, r := range text {
		if isChineseChar(r) {
			b.WriteRune(' ')
			b.WriteRune(r)
			b.WriteRune(' ')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// splitOnPunctuation splits a word at each punctuation character, keeping
// the punctuation as separate tokens.
func splitOnPunctuation(word string) []string {
	var tokens []string
	var current strings.Builder
	for _, r := range word {
		if isPunctuation(r) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
			tokens = append(tokens, string(r))
		} else {
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// Character classification helpers — these match BERT's Python implementation.

func isWhitespace(r rune) bool {
	if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

func isControl(r rune) bool {
	if r == '\t' || r == '\n' || r == '\r' {
		return false
	}
	return unicode.IsControl(r)
}

func isPunctuation(r rune) bool {
	// BERT treats anything in ASCII range 33-47, 58-64, 91-96, 123-126 as
	// punctuation, plus Unicode punctuation categories.
	if (r >= 33 && r <= 47) || (r >= 58 && r <= 64) ||
		(r >= 91 && r <= 96) || (r >= 123 && r <= 126) {
		return true
	}
	return unicode.IsPunct(r)
}

func isChineseChar(r rune) bool {
	// CJK Unified Ideographs and extension ranges.
	return (r >= 0x4E00 && r <= 0x9FFF) ||
		(r >= 0x3400 && r <= 0x4DBF) ||
		(r >= 0x20000 && r <= 0x2A6DF) ||
		(r >= 0x2A700 && r <= 0x2B73F) ||
		(r >= 0x2B740 && r <= 0x2B81F) ||
		(r >= 0x2B820 && r <= 0x2CEAF) ||
		(r >= 0xF900 && r <= 0xFAFF) ||
		(r >= 0x2F800 && r <= 0x2FA1F)
}
