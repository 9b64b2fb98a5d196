package generate

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// SpecialTokens lists the control markers stripped from decoded text.
var SpecialTokens = []string{
	"<|endoftext|>",
	"<|im_start|>",
	"<|im_end|>",
	"<|eot_id|>",
	"<|end_of_text|>",
	"<|begin_of_text|>",
	"<|end|>",
	"<pad>",
	"<unk>",
	"<s>",
	"</s>",
	"<eos>",
	"<bos>",
}

// any other <|...|> marker, e.g. <|start_header_id|>
var controlTokenRe = regexp.MustCompile(`<\|[A-Za-z0-9_]+\|>`)

// Decode joins prompt and continuation and drops special tokens.
func Decode(prompt, continuation string) string {
	return StripSpecialTokens(prompt + continuation)
}

// StripSpecialTokens removes markers until none is left, so a removal that
// joins its neighbours into a new marker is removed too.
func StripSpecialTokens(text string) string {
	for {
		stripped := text
		for _, tok := range SpecialTokens {
			stripped = strings.ReplaceAll(stripped, tok, "")
		}
		stripped = controlTokenRe.ReplaceAllString(stripped, "")
		if stripped == text {
			return text
		}
		text = stripped
	}
}

// Print writes sequences as a numbered list.
func Print(w io.Writer, seqs []string) error {
	for i, s := range seqs {
		if _, err := fmt.Fprintf(w, "%d. %s\n", i+1, s); err != nil {
			return err
		}
	}
	return nil
}

// Format is Print into a string.
func Format(seqs []string) string {
	var sb strings.Builder
	_ = Print(&sb, seqs)
	return sb.String()
}
