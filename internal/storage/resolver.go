package storage

import (
	"strings"
)

// PublicURLResolver turns the opaque blob refs stored on workspaces, folders
// and files (logos, banners) into browser-loadable URLs.
type PublicURLResolver interface {
	PublicURL(ref string) string
}

// SupabaseResolver resolves refs against a Supabase storage public endpoint.
// Refs are stored as "<bucket>/<path>" so the same row works across projects.
type SupabaseResolver struct {
	baseURL string
}

// NewSupabaseResolver creates a resolver rooted at the given public base URL.
func NewSupabaseResolver(baseURL string) *SupabaseResolver {
	return &SupabaseResolver{baseURL: strings.TrimRight(baseURL, "/")}
}

// PublicURL joins the ref onto the base URL. Refs that are already absolute
// URLs pass through untouched so externally hosted images keep working.
func (r *SupabaseResolver) PublicURL(ref string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return r.baseURL + "/" + strings.TrimLeft(ref, "/")
}
