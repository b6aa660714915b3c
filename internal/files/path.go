// Package files contains the path resolution pipeline and small file
// helpers used by the request handler.
//
// Resolution turns an untrusted request path into a path that is safe to
// hand to a content store. It is purely lexical: no filesystem calls, no
// symlink resolution. The traversal guard (IsWithinRoot) is applied by the
// handler independently of normalization, so a bug in either stage alone
// cannot expose content outside the served root.
package files

import "strings"

// DecodePercents decodes percent-escapes in a request path.
//
// Each '%' consumes the following two characters as hex digits and is
// replaced by the decoded byte. If the two characters are missing or not
// valid hex digits, the '%' is kept literally and scanning resumes right
// after it; decoding never fails.
func DecodePercents(path string) string {
	if !strings.Contains(path, "%") {
		return path
	}

	out := make([]byte, 0, len(path)+1)
	for i := 0; i < len(path); i++ {
		if path[i] == '%' && i+2 < len(path) {
			hi, okHi := fromHex(path[i+1])
			lo, okLo := fromHex(path[i+2])
			if okHi && okLo {
				out = append(out, hi<<4|lo)
				i += 2
				continue
			}
		}
		out = append(out, path[i])
	}
	return string(out)
}

func fromHex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// NormalizePath removes "." and ".." components from a slash-separated
// path without consulting the filesystem (RFC 3986 section 5.2.4).
//
// A ".." pops the previously retained component; at depth zero it is
// discarded, so a normalized path can never climb above its anchor.
// Empty components (from doubled or trailing slashes) are dropped.
// Idempotent: normalizing an already-normalized path is a no-op.
func NormalizePath(p string) string {
	rooted := strings.HasPrefix(p, "/")

	var kept []string
	for _, component := range strings.Split(p, "/") {
		switch component {
		case "", ".":
			// skip
		case "..":
			if len(kept) > 0 {
				kept = kept[:len(kept)-1]
			}
		default:
			kept = append(kept, component)
		}
	}

	out := strings.Join(kept, "/")
	if rooted {
		return "/" + out
	}
	return out
}

// Resolve decodes and normalizes a request path against the given root.
//
// The returned path is anchored at root, but callers must still verify it
// with IsWithinRoot before any store access; Resolve on its own is not
// trusted to be the security boundary.
func Resolve(reqPath, root string) string {
	decoded := DecodePercents(reqPath)
	joined := strings.TrimSuffix(root, "/") + "/" + decoded
	return NormalizePath(joined)
}

// IsWithinRoot reports whether root is an ancestor of (or equal to) path.
// This is the traversal guard: only paths accepted here may reach a store.
func IsWithinRoot(path, root string) bool {
	root = strings.TrimSuffix(root, "/")
	if root == "" {
		return strings.HasPrefix(path, "/")
	}
	return path == root || strings.HasPrefix(path, root+"/")
}
