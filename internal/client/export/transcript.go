// Package export writes conversation transcripts to a local file or to an
// S3-compatible bucket.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/sanguischat/internal/client/models"
)

const timeLayout = "2006-01-02 15:04:05"

// WriteTranscript renders conv as plain text.
func WriteTranscript(w io.Writer, conv *models.Conversation) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %s\n", conv.DisplayTitle())
	fmt.Fprintf(bw, "id: %s\n", conv.ID)
	if !conv.CreatedAt.IsZero() {
		fmt.Fprintf(bw, "created: %s\n", conv.CreatedAt.UTC().Format(timeLayout))
	}
	for _, m := range conv.Messages {
		bw.WriteString("\n")
		if m.Timestamp.IsZero() {
			fmt.Fprintf(bw, "[%s]\n", m.Role)
		} else {
			fmt.Fprintf(bw, "[%s] %s\n", m.Role, m.Timestamp.UTC().Format(timeLayout))
		}
		bw.WriteString(m.Content)
		bw.WriteString("\n")
	}
	return bw.Flush()
}

// ToFile writes the transcript to path, replacing any existing file.
func ToFile(path string, conv *models.Conversation) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteTranscript(f, conv); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// DefaultFileName is used when the user gives no target file.
func DefaultFileName(conv *models.Conversation, now time.Time) string {
	return fmt.Sprintf("conversation-%s-%s.txt", safeName(conv.ID), now.UTC().Format("20060102-150405"))
}

func safeName(s string) string {
	b := []byte(s)
	for i, c := range b {
		ok := c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_'
		if !ok {
			b[i] = '_'
		}
	}
	return string(b)
}
