package network

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultLinkKey is the StoreLinks entry used when a network has no override.
const DefaultLinkKey = "default"

// StoreLink is the app store destination pair for one network.
type StoreLink struct {
	IOS     string `yaml:"ios" json:"ios"`
	Android string `yaml:"android" json:"android"`
}

// StoreLinks maps network identifiers to store links. It must carry a
// DefaultLinkKey entry.
type StoreLinks map[string]StoreLink

// DefaultStoreLinks returns the table shipped with the template.
func DefaultStoreLinks() StoreLinks {
	return StoreLinks{
		DefaultLinkKey: {
			IOS:     "https://google.com",
			Android: "https://google.com",
		},
	}
}

// Resolve returns the link pair for id, falling back to the default entry.
func (s StoreLinks) Resolve(id string) StoreLink {
	if l, ok := s[id]; ok {
		return l
	}
	return s[DefaultLinkKey]
}

// unsafeLinkChars cannot appear inside the single-quoted JS strings links are injected into.
const unsafeLinkChars = "'\\\r\n"

// Validate checks that a default exists and every URL is absolute and safe to
// place inside a single-quoted JS string.
func (s StoreLinks) Validate() error {
	if _, ok := s[DefaultLinkKey]; !ok {
		return fmt.Errorf("store links: missing %q entry", DefaultLinkKey)
	}
	for id, l := range s {
		for platform, raw := range map[string]string{"ios": l.IOS, "android": l.Android} {
			u, err := url.Parse(raw)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return fmt.Errorf("store links: %s %s url %q is not absolute", id, platform, raw)
			}
			if strings.ContainsAny(raw, unsafeLinkChars) {
				return fmt.Errorf("store links: %s %s url %q contains a quote, backslash or line break", id, platform, raw)
			}
		}
	}
	return nil
}
