package pagination

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/releasecheck/pkg/domain/types"
)

// Example of a GitHub Link header:
//
//	<https://api.github.com/repositories/1/releases?per_page=1&page=2>; rel="next", <https://api.github.com/repositories/1/releases?per_page=1&page=10>; rel="last"
const linkHeader = "Link"

// pageParamPattern matches "page=N" together with any word characters that
// precede it, so that "per_page=N" can be told apart from "page=N".
var pageParamPattern = regexp.MustCompile(`(\w*)page=(\d+)`)

// LastPage extracts the last page number announced by the Link header.
// ok is false when the header is absent or has no "last" relation.
func LastPage(header http.Header) (last int, ok bool, err error) {
	value, found := lookupHeader(header, linkHeader)
	if !found {
		return 0, false, nil
	}

	if !isVisibleASCII(value) {
		return 0, false, goerr.Wrap(types.ErrHeaderDecode, "Link header is not representable as text",
			goerr.V("header", linkHeader))
	}

	for _, entry := range strings.Split(value, ",") {
		target, rels, valid := parseLinkEntry(entry)
		if !valid || !hasRelation(rels, "last") {
			continue
		}

		page, found, err := pageNumber(target)
		if err != nil {
			return 0, false, err
		}
		if !found {
			return 0, false, goerr.Wrap(types.ErrMalformedPagination, "no page number in last link",
				goerr.V("link", strings.TrimSpace(entry)))
		}
		return page, true, nil
	}

	return 0, false, nil
}

func lookupHeader(header http.Header, key string) (string, bool) {
	if values, ok := header[http.CanonicalHeaderKey(key)]; ok && len(values) > 0 {
		return values[0], true
	}
	for k, values := range header {
		if strings.EqualFold(k, key) && len(values) > 0 {
			return values[0], true
		}
	}
	return "", false
}

// isVisibleASCII mirrors what HTTP allows to be read back as a string:
// visible ASCII characters, space and horizontal tab.
func isVisibleASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\t' && (c < 0x20 || c > 0x7e) {
			return false
		}
	}
	return true
}

// parseLinkEntry splits `<url>; rel="a b"; other=x` into the URL and its
// relation types.
func parseLinkEntry(entry string) (target string, rels []string, ok bool) {
	entry = strings.TrimSpace(entry)
	if !strings.HasPrefix(entry, "<") {
		return "", nil, false
	}
	end := strings.Index(entry, ">")
	if end < 0 {
		return "", nil, false
	}
	target = entry[1:end]

	for _, param := range strings.Split(entry[end+1:], ";") {
		key, val, found := strings.Cut(strings.TrimSpace(param), "=")
		if !found || !strings.EqualFold(strings.TrimSpace(key), "rel") {
			continue
		}
		val = strings.Trim(strings.TrimSpace(val), `"`)
		rels = append(rels, strings.Fields(val)...)
	}

	return target, rels, true
}

func hasRelation(rels []string, name string) bool {
	for _, rel := range rels {
		if rel == name {
			return true
		}
	}
	return false
}

// pageNumber returns the value of the "page" parameter, ignoring keys that
// merely end with "page" such as "per_page".
func pageNumber(target string) (int, bool, error) {
	for _, m := range pageParamPattern.FindAllStringSubmatch(target, -1) {
		if m[1] != "" {
			continue
		}
		n, err := strconv.ParseUint(m[2], 10, 31)
		if err != nil {
			return 0, false, goerr.Wrap(types.ErrMalformedPagination, "page number out of range",
				goerr.V("page", m[2]))
		}
		return int(n), true, nil
	}
	return 0, false, nil
}
