// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citehist/pkg/types"
)

func TestReadNames(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		column  string
		want    []string
	}{
		{
			name:    "csv name column",
			file:    "authors.csv",
			content: "affiliation,name\nPadova,Luca Salasnich\nTrento,\"Stringari, Sandro\"\n",
			want:    []string{"Luca Salasnich", "Stringari, Sandro"},
		},
		{
			name:    "csv falls back to first column",
			file:    "authors.csv",
			content: "author,field\nLuca Salasnich,physics\nSandro Stringari,physics\n",
			want:    []string{"Luca Salasnich", "Sandro Stringari"},
		},
		{
			name:    "csv explicit column case-insensitive",
			file:    "authors.csv",
			content: "id,Full Name\n1,Luca Salasnich\n2,Sandro Stringari\n",
			column:  "full name",
			want:    []string{"Luca Salasnich", "Sandro Stringari"},
		},
		{
			name:    "csv drops blank rows and short records",
			file:    "authors.csv",
			content: "id,name\n1,Luca Salasnich\n2,\n3\n4,  \n5,Sandro Stringari\n",
			want:    []string{"Luca Salasnich", "Sandro Stringari"},
		},
		{
			name:    "csv with byte order mark",
			file:    "authors.csv",
			content: "\ufeffname,id\nLuca Salasnich,1\n",
			want:    []string{"Luca Salasnich"},
		},
		{
			name:    "tsv",
			file:    "authors.tsv",
			content: "id\tname\n1\tLuca Salasnich\n2\tO\"Brien\n",
			want:    []string{"Luca Salasnich", "O\"Brien"},
		},
		{
			name:    "yaml",
			file:    "authors.yaml",
			content: "authors:\n  - Luca Salasnich\n  - \"\"\n  - Sandro Stringari\n",
			want:    []string{"Luca Salasnich", "Sandro Stringari"},
		},
		{
			name:    "yml empty file",
			file:    "authors.yml",
			content: "",
			want:    []string{},
		},
		{
			name:    "txt one per line",
			file:    "authors.txt",
			content: "Luca Salasnich\r\n\r\nSandro Stringari\n",
			want:    []string{"Luca Salasnich", "Sandro Stringari"},
		},
		{
			name:    "csv single column without header",
			file:    "authors.csv",
			content: "Luca Salasnich\nAlbert Einstein\n",
			want:    []string{"Luca Salasnich", "Albert Einstein"},
		},
		{
			name:    "csv single column with name header",
			file:    "authors.csv",
			content: "Name\nLuca Salasnich\nAlbert Einstein\n",
			want:    []string{"Luca Salasnich", "Albert Einstein"},
		},
		{
			name:    "tsv single column without header and byte order mark",
			file:    "authors.tsv",
			content: "\ufeffLuca Salasnich\nAlbert Einstein\n",
			want:    []string{"Luca Salasnich", "Albert Einstein"},
		},
		{
			name:    "csv header only",
			file:    "authors.csv",
			content: "name\n",
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			got, err := ReadNames(path, tt.column)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadNamesErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadNames(filepath.Join(dir, "missing.csv"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening name file")

	xlsx := filepath.Join(dir, "authors.xlsx")
	require.NoError(t, os.WriteFile(xlsx, []byte("binary"), 0o644))
	_, err = ReadNames(xlsx, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidInput)

	badYAML := filepath.Join(dir, "authors.yaml")
	require.NoError(t, os.WriteFile(badYAML, []byte("authors: [unterminated\n"), 0o644))
	_, err = ReadNames(badYAML, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing name file")
}
