package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocket/internal/encoding"
)

// "Categoria;Café\n" with é as Windows-1252 0xE9.
var latin1 = []byte{'C', 'a', 't', 'e', 'g', 'o', 'r', 'i', 'a', ';', 'C', 'a', 'f', 0xE9, '\n'}

func TestDetect(t *testing.T) {
	type testCase struct {
		name string
		in   []byte
		want string
	}

	tests := []testCase{
		{name: "PlainUTF8", in: []byte("Date,Category\n2026-01-01,Café\n"), want: encoding.UTF8},
		{name: "Empty", in: nil, want: encoding.UTF8},
		{name: "UTF8BOM", in: append([]byte{0xEF, 0xBB, 0xBF}, "Date"...), want: encoding.UTF8BOM},
		{name: "UTF16LE", in: []byte{0xFF, 0xFE, 'D', 0}, want: encoding.UTF16LE},
		{name: "UTF16BE", in: []byte{0xFE, 0xFF, 0, 'D'}, want: encoding.UTF16BE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, encoding.Detect(tt.in))
		})
	}
}

func TestNewUTF8Reader(t *testing.T) {
	type testCase struct {
		name    string
		in      []byte
		want    string
		charset string
	}

	tests := []testCase{
		{
			name:    "UTF8Passthrough",
			in:      []byte("Date,Category,Amount\n2026-01-01,Alimentação,12.50\n"),
			want:    "Date,Category,Amount\n2026-01-01,Alimentação,12.50\n",
			charset: encoding.UTF8,
		},
		{
			name:    "BOMStripped",
			in:      append([]byte{0xEF, 0xBB, 0xBF}, "Descrição;Montante\n"...),
			want:    "Descrição;Montante\n",
			charset: encoding.UTF8BOM,
		},
		{
			name:    "Windows1252",
			in:      latin1,
			want:    "Categoria;Café\n",
		},
		{
			name:    "UTF16LE",
			in:      []byte{0xFF, 0xFE, 'O', 0, 'K', 0},
			want:    "OK",
			charset: encoding.UTF16LE,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, charset, err := encoding.NewUTF8Reader(bytes.NewReader(tt.in))
			require.NoError(t, err)
			// chardet may name either single-byte charset for short input.
			if tt.charset != "" {
				assert.Equal(t, tt.charset, charset)
			} else {
				assert.Contains(t, []string{encoding.Windows1252, encoding.ISO88599}, charset)
			}

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}
