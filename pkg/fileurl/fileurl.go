// Package fileurl normaliza referencias a archivos subidos para que el cliente las pueda abrir.
package fileurl

import (
	"net/url"
	"strings"
)

// Resolver convierte referencias almacenadas (rutas relativas o URLs heredadas) en URLs públicas.
type Resolver struct {
	base string
}

// NewResolver construye un resolver sobre la URL base del servidor de archivos (puede ser vacía).
func NewResolver(base string) *Resolver {
	return &Resolver{base: strings.TrimRight(strings.TrimSpace(base), "/")}
}

// Resolve normaliza ref:
//   - ruta relativa: se resuelve contra la base.
//   - URL absoluta hacia localhost o un túnel ngrok: se reescribe sobre la base conservando solo el path.
//   - cualquier otra URL absoluta se devuelve sin cambios.
func (r *Resolver) Resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if u.IsAbs() {
		if u.Scheme != "http" && u.Scheme != "https" {
			return ref
		}
		if !isLegacyHost(u.Hostname()) || r.base == "" {
			return ref
		}
		return r.join(u.Path)
	}
	if strings.HasPrefix(ref, "//") {
		return ref
	}
	return r.join(u.Path)
}

// ResolveMap aplica Resolve a cada valor; devuelve un mapa nuevo.
func (r *Resolver) ResolveMap(refs map[string]string) map[string]string {
	out := make(map[string]string, len(refs))
	for k, v := range refs {
		out[k] = r.Resolve(v)
	}
	return out
}

func (r *Resolver) join(path string) string {
	path = "/" + strings.TrimLeft(path, "/")
	return r.base + path
}

func isLegacyHost(host string) bool {
	host = strings.ToLower(host)
	switch host {
	case "localhost", "127.0.0.1", "0.0.0.0", "::1":
		return true
	}
	return strings.Contains(host, "ngrok")
}
