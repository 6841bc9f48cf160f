package main

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoded_Latin1(t *testing.T) {
	// "Tubería" en ISO-8859-1
	raw := "name\nTuber\xeda\n"
	r, err := decoded(strings.NewReader(raw), "ISO-8859-1")
	require.NoError(t, err)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "name\nTubería\n", string(out))
}

func TestDecoded_UTF8SinCambios(t *testing.T) {
	r, err := decoded(strings.NewReader("name\nCañería\n"), "utf8")
	require.NoError(t, err)
	out, _ := io.ReadAll(r)
	assert.Equal(t, "name\nCañería\n", string(out))
}

func TestDecoded_Desconocida(t *testing.T) {
	_, err := decoded(strings.NewReader(""), "ebcdic")
	assert.Error(t, err)
}
