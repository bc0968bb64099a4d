package oaipmh

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"sort"
	"strings"
	"time"
)

var (
	// ErrVerbNotSupported is returned for verbs the Harvester cannot
	// mirror.
	ErrVerbNotSupported = errors.New("verb not supported by harvester")
	// ErrNoHost is returned when the endpoint URL has no host part.
	ErrNoHost = errors.New("no host")
)

// DefaultEarliestDate is used if the repository does not supply one.
var DefaultEarliestDate = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// DefaultNamespaces are declared on the synthetic root element, so the
// concatenated page payloads stay resolvable for common metadata
// formats.
var DefaultNamespaces = map[string]string{
	"oai":    Namespace,
	"xsi":    "http://www.w3.org/2001/XMLSchema-instance",
	"dc":     "http://purl.org/dc/elements/1.1/",
	"oai_dc": "http://www.openarchives.org/OAI/2.0/oai_dc/",
}

// Harvester mirrors the raw payloads of a list harvest to a writer,
// window by window. The output is the verbatim inner XML of each
// ListRecords or ListIdentifiers container, optionally wrapped into a
// synthetic root element. Ranges are split into weekly windows to
// reduce load and latency in case of errors; with a cache attached,
// windows completed in earlier runs are not fetched again, which
// amounts to incremental harvesting.
type Harvester struct {
	// RootTag is used as synthetic root element, empty means none.
	RootTag string
	// Namespaces adds xmlns declarations to the root element.
	Namespaces map[string]string
	// Cache, if set, stores window payloads for subsequent runs.
	Cache *DirCache

	client *Client
}

// NewHarvester wraps a client for mirroring.
func NewHarvester(client *Client) *Harvester {
	return &Harvester{client: client, Namespaces: DefaultNamespaces}
}

func (h *Harvester) startDocument(w io.Writer) error {
	if h.RootTag == "" {
		return nil
	}
	var nslist []string
	for k, v := range h.Namespaces {
		nslist = append(nslist, fmt.Sprintf(`xmlns:%s=%q`, k, v))
	}
	sort.Strings(nslist)
	tag := "<" + h.RootTag
	if len(nslist) > 0 {
		tag += " " + strings.Join(nslist, " ")
	}
	_, err := io.WriteString(w, tag+">")
	return err
}

func (h *Harvester) endDocument(w io.Writer) error {
	if h.RootTag == "" {
		return nil
	}
	_, err := io.WriteString(w, "</"+h.RootTag+">")
	return err
}

// harvestWindow streams every page of one window. noRecordsMatch is an
// empty window, not a failure.
func (h *Harvester) harvestWindow(ctx context.Context, w io.Writer, verb Verb, prefix string, sel Selection) error {
	var token string
	params := sel.values(prefix)
	for i := 0; ; i++ {
		if i >= h.client.maxRequests {
			return ErrTooManyRequests
		}
		env, err := h.client.dispatch(ctx, verb, token, params)
		if err != nil {
			if errors.Is(err, ErrNoRecordsMatch) {
				return nil
			}
			return err
		}
		var raw string
		var tok *resumptionTokenNode
		switch verb {
		case VerbListRecords:
			if env.ListRecords == nil {
				return &StructuralError{Verb: verb, Missing: "ListRecords"}
			}
			raw, tok = env.ListRecords.Raw, env.ListRecords.Token
		case VerbListIdentifiers:
			if env.ListIdentifiers == nil {
				return &StructuralError{Verb: verb, Missing: "ListIdentifiers"}
			}
			raw, tok = env.ListIdentifiers.Raw, env.ListIdentifiers.Token
		default:
			return ErrVerbNotSupported
		}
		if _, err := io.WriteString(w, raw); err != nil {
			return err
		}
		token = tok.value()
		if token == "" {
			return nil
		}
	}
}

// cacheKey turns a window request into a relative path. The set spec
// is base64 encoded, it may contain characters unfit for paths.
func cacheKey(endpoint string, verb Verb, prefix, set string, win Window) (string, error) {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	if ref.Host == "" {
		return "", ErrNoHost
	}
	name := fmt.Sprintf("%s-%s.xml", win.From.Format("2006-01-02"), win.Until.Format("2006-01-02"))
	parts := []string{ref.Host, ref.Path, string(verb), prefix}
	if set != "" {
		parts = append(parts, base64.RawURLEncoding.EncodeToString([]byte(set)))
	}
	parts = append(parts, name)
	return path.Join(parts...), nil
}

// earliest asks the repository for its earliest datestamp.
func (h *Harvester) earliest(ctx context.Context) time.Time {
	ident, err := h.client.Identify(ctx)
	if err != nil || len(ident.EarliestDatestamp) < 10 {
		return DefaultEarliestDate
	}
	t, err := time.Parse("2006-01-02", ident.EarliestDatestamp[:10])
	if err != nil {
		return DefaultEarliestDate
	}
	return t
}

// Run mirrors the given range. A zero from is filled from the
// repository's earliest datestamp, a zero until defaults to now.
func (h *Harvester) Run(ctx context.Context, w io.Writer, verb Verb, prefix, set string, from, until time.Time) error {
	if verb != VerbListRecords && verb != VerbListIdentifiers {
		return ErrVerbNotSupported
	}
	if from.IsZero() {
		from = h.earliest(ctx)
	}
	if until.IsZero() {
		until = time.Now()
	}
	windows, err := Window{From: from, Until: until}.Weekly()
	if err != nil {
		return err
	}
	if err := h.startDocument(w); err != nil {
		return err
	}
	for _, win := range windows {
		if err := h.runWindow(ctx, w, verb, prefix, set, win); err != nil {
			return err
		}
	}
	return h.endDocument(w)
}

func (h *Harvester) runWindow(ctx context.Context, w io.Writer, verb Verb, prefix, set string, win Window) error {
	if h.Cache == nil {
		return h.harvestWindow(ctx, w, verb, prefix, win.selection(set))
	}
	key, err := cacheKey(h.client.endpoint, verb, prefix, set, win)
	if err != nil {
		return err
	}
	if !h.Cache.Has(key) {
		var buf bytes.Buffer
		if err := h.harvestWindow(ctx, &buf, verb, prefix, win.selection(set)); err != nil {
			return err
		}
		if err := h.Cache.Set(key, buf.Bytes()); err != nil {
			return err
		}
	}
	b, err := h.Cache.Get(key)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
