package goquery_test

import (
	"testing"

	"github.com/fwojciec/lnreader/goquery"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"removes annotation and year", "Volume 1 [Teaser] (2019)", "Volume 1"},
		{"removes tags", "<b>Volume 2</b>", "Volume 2"},
		{"cuts at parenthesis", "Chapter 3 (Part 1)", "Chapter 3"},
		{"trims whitespace", "  Prologue \n", "Prologue"},
		{"keeps leading parenthesis", "(Side Story)", "(Side Story)"},
		{"removes leading annotation", "[Full Text] Epilogue", "Epilogue"},
		{"leaves plain titles", "Afterword", "Afterword"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, goquery.SanitizeTitle(tt.input))
		})
	}
}
