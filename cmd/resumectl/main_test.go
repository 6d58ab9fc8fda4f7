package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumeforge/resumeforge/internal/faq"
)

const validDoc = `{
  "personalInfo": {"fullName": "Jane Doe", "email": "jane@example.com"},
  "education": [{"id": "e1", "institution": "MIT"}],
  "experience": [{"id": "x1"}],
  "projects": [{"id": "p1"}],
  "skills": ["Go"],
  "languages": [{"id": "l1", "name": "English", "proficiency": "native"}]
}`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestDraftValidateAcceptsDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.json")
	require.NoError(t, os.WriteFile(path, []byte(validDoc), 0o644))

	out, err := run(t, "", "draft", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, `ok: "Jane Doe"`)
	assert.Contains(t, out, "1 skills")
}

func TestDraftValidateRejectsMissingName(t *testing.T) {
	doc := strings.Replace(validDoc, `"Jane Doe"`, `""`, 1)
	_, err := run(t, doc, "draft", "validate", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "full name is required")
}

func TestDraftValidateRejectsNullSection(t *testing.T) {
	doc := strings.Replace(validDoc, `"skills": ["Go"]`, `"skills": null`, 1)
	_, err := run(t, doc, "draft", "validate", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid resume document")
}

func TestRenderHTMLWritesPreview(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "preview.html")
	_, err := run(t, validDoc, "render", "html", "-", "--template", "classic", "--output", dest)
	require.NoError(t, err)

	html, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(html), "template-classic")
	assert.Contains(t, string(html), "Jane Doe")
}

func TestFaqAskIsDeterministicWithSeed(t *testing.T) {
	want, _ := faq.NewResponder(7).Respond("hello")
	out, err := run(t, "", "faq", "ask", "--seed", "7", "hello")
	require.NoError(t, err)
	assert.Equal(t, want+"\n", out)
}

func TestFaqChatRepliesPerLine(t *testing.T) {
	want, _ := faq.NewResponder(1).Respond("what can you do")
	out, err := run(t, "what can you do\n\n", "faq", "chat", "--seed", "1", "--delay", "0s")
	require.NoError(t, err)
	assert.Equal(t, "bot> "+faq.Greeting()+"\nbot> "+want+"\n", out)
}
