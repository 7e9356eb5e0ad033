package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePartners(t *testing.T) {
	in := "code;short_name;name\n" +
		"C001;ACME;Acme S.A.S.\n" +
		";SINCOD;\n" +
		";;\n" +
		"C001;ACME2;duplicado\n"

	got, err := parsePartners(strings.NewReader(in), false)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "C001", got[0].Code)
	assert.Equal(t, "Acme S.A.S.", got[0].Name)
	assert.Equal(t, "SINCOD", got[1].Name)

	// Ids estables entre cargas.
	again, err := parsePartners(strings.NewReader(in), false)
	require.NoError(t, err)
	assert.Equal(t, got[0].ID, again[0].ID)
}

func TestParsePartners_Latin1(t *testing.T) {
	// "Peña" en ISO-8859-1: ñ = 0xF1
	raw := append([]byte("code;short_name;name\nC9;PENA;Pe"), 0xF1, 'a')
	got, err := parsePartners(bytes.NewReader(raw), true)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Peña", got[0].Name)
}

func TestParsePartners_Empty(t *testing.T) {
	got, err := parsePartners(strings.NewReader(""), false)
	require.NoError(t, err)
	assert.Empty(t, got)
}
