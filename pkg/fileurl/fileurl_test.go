package fileurl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/sitetrack-api/pkg/fileurl"
)

func TestResolve(t *testing.T) {
	r := fileurl.NewResolver("https://files.example.com/")
	cases := []struct {
		name, in, want string
	}{
		{"vacío", "", ""},
		{"relativa", "uploads/a.jpg", "https://files.example.com/uploads/a.jpg"},
		{"relativa con barra", "/uploads/a.jpg", "https://files.example.com/uploads/a.jpg"},
		{"localhost heredado", "http://localhost:5000/uploads/a.jpg", "https://files.example.com/uploads/a.jpg"},
		{"ngrok heredado", "https://abc123.ngrok-free.app/uploads/b.png?x=1", "https://files.example.com/uploads/b.png"},
		{"externa", "https://storage.googleapis.com/bucket/c.jpg", "https://storage.googleapis.com/bucket/c.jpg"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.Resolve(tc.in))
		})
	}
}

func TestResolve_WithoutBase(t *testing.T) {
	r := fileurl.NewResolver("")
	assert.Equal(t, "/uploads/a.jpg", r.Resolve("uploads/a.jpg"))
	assert.Equal(t, "http://localhost:5000/uploads/a.jpg", r.Resolve("http://localhost:5000/uploads/a.jpg"))
}

func TestResolveMap(t *testing.T) {
	r := fileurl.NewResolver("https://f.io")
	in := map[string]string{"before": "/uploads/a.jpg"}
	out := r.ResolveMap(in)
	assert.Equal(t, "https://f.io/uploads/a.jpg", out["before"])
	assert.Equal(t, "/uploads/a.jpg", in["before"], "la entrada no se modifica")
}
