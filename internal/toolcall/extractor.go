package toolcall

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/felixgeelhaar/toolwire/internal/toolschema"
)

var (
	functionOpenRe = regexp.MustCompile(`<function=([^>\n]+)>`)
	parameterRe    = regexp.MustCompile(`(?s)<parameter=([^>\n]+)>(.*?)</parameter>`)
	salvageNameRe  = regexp.MustCompile(`"(?:name|tool|function)"\s*:\s*"([^"]*)"`)
	codeFenceRe    = regexp.MustCompile("(?s)^```[A-Za-z0-9_-]*\\s*(.*?)\\s*```$")
)

const functionClose = "</function>"

// Extractor finds tool calls in assistant text. It holds only read-only state
// and is safe for concurrent use.
type Extractor struct {
	markers  Markers
	wrapped  *regexp.Regexp
	degraded *regexp.Regexp
	catalog  *toolschema.Catalog
	newID    func() string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMarkers overrides the wrapper delimiters. Empty fields keep the default.
func WithMarkers(m Markers) Option {
	return func(x *Extractor) {
		if m.Open != "" {
			x.markers.Open = m.Open
		}
		if m.Close != "" {
			x.markers.Close = m.Close
		}
	}
}

// WithCatalog enables argument coercion and validation against c.
func WithCatalog(c *toolschema.Catalog) Option {
	return func(x *Extractor) {
		x.catalog = c
	}
}

// WithIDGenerator replaces the call ID generator; nil disables IDs.
func WithIDGenerator(fn func() string) Option {
	return func(x *Extractor) {
		x.newID = fn
	}
}

// New returns an Extractor.
func New(opts ...Option) *Extractor {
	x := &Extractor{
		markers: DefaultMarkers(),
		newID:   NewID,
	}
	for _, opt := range opts {
		opt(x)
	}

	open := regexp.QuoteMeta(x.markers.Open)
	closing := regexp.QuoteMeta(x.markers.Close)
	x.wrapped = regexp.MustCompile(`(?s)` + open + `(.*?)` + closing)
	x.degraded = regexp.MustCompile(`(?s)<function=[^>\n]+>.*?</function>\s*` + closing)
	return x
}

var defaultExtractor = sync.OnceValue(func() *Extractor { return New() })

// Extract runs the default extractor over text.
func Extract(text string) Extraction {
	return defaultExtractor().Extract(text)
}

// Markers returns the wrapper delimiters in use.
func (x *Extractor) Markers() Markers {
	return x.markers
}

// Extract returns text with every accepted call removed, plus the calls in
// source order. It never fails: a wrapped block that matches no grammar is
// still consumed and recorded as a salvaged call.
func (x *Extractor) Extract(text string) Extraction {
	var (
		calls []Call
		taken consumed
	)

	// Pass one: well-formed wrapped blocks.
	for _, loc := range x.wrapped.FindAllStringSubmatchIndex(text, -1) {
		s := span{start: loc[0], end: loc[1]}
		call := parseWrapped(text[loc[2]:loc[3]])
		call.Offset = s.start
		calls = append(calls, call)
		taken = append(taken, s)
	}

	// Pass two: degraded tag records, rejected on overlap with pass one.
	var accepted []span
	for _, loc := range x.degraded.FindAllStringIndex(text, -1) {
		s := span{start: loc[0], end: loc[1]}
		// A lazy match can start at an earlier <function=...> and run across
		// text; the record proper begins at the last opening tag.
		if i := strings.LastIndex(text[s.start:s.end], "<function="); i > 0 {
			s.start += i
		}
		if taken.overlaps(s) {
			continue
		}
		call, ok := parseTagRecord(text[s.start:s.end])
		if !ok {
			continue
		}
		call.Encoding = EncodingDegraded
		call.Offset = s.start
		calls = append(calls, call)
		accepted = append(accepted, s)
	}
	taken = append(taken, accepted...)

	if len(calls) == 0 {
		return Extraction{Text: text, Calls: []Call{}}
	}

	sort.SliceStable(calls, func(i, j int) bool { return calls[i].Offset < calls[j].Offset })
	for i := range calls {
		x.finish(&calls[i])
	}

	return Extraction{
		Text:  strings.TrimSpace(strip(text, taken)),
		Calls: calls,
	}
}

func (x *Extractor) finish(c *Call) {
	if c.Arguments == nil {
		c.Arguments = map[string]any{}
	}
	if x.newID != nil {
		c.ID = x.newID()
	}
	if x.catalog == nil {
		return
	}

	tool, ok := x.catalog.Lookup(c.Name)
	if !ok {
		c.Warnings = append(c.Warnings, fmt.Sprintf("unknown tool %q", c.Name))
		return
	}
	if c.Encoding != EncodingJSON {
		c.Arguments = tool.Coerce(c.Arguments)
	}
	if err := tool.Validate(c.Arguments); err != nil {
		c.Warnings = append(c.Warnings, err.Error())
	}
}

// parseWrapped interprets the body of a wrapped block: structured data
// first, then a tag record, then best-effort salvage.
func parseWrapped(body string) Call {
	if call, ok := parseJSONRecord(body); ok {
		return call
	}
	if call, ok := parseTagRecord(body); ok {
		call.Encoding = EncodingTags
		return call
	}
	return salvage(body)
}

func parseJSONRecord(body string) (Call, bool) {
	trimmed := strings.TrimSpace(body)
	if m := codeFenceRe.FindStringSubmatch(trimmed); m != nil {
		trimmed = m[1]
	}
	if !strings.HasPrefix(trimmed, "{") {
		return Call{}, false
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
		return Call{}, false
	}

	// OpenAI style nests the record under "function".
	if fn, ok := obj["function"].(map[string]any); ok {
		obj = fn
	}

	name := firstString(obj, "name", "tool", "function")
	if name == "" {
		return Call{}, false
	}

	args, ok := jsonArguments(obj)
	if !ok {
		return Call{}, false
	}
	return Call{Name: name, Arguments: args, Encoding: EncodingJSON}, true
}

func jsonArguments(obj map[string]any) (map[string]any, bool) {
	for _, key := range []string{"arguments", "parameters", "args"} {
		raw, present := obj[key]
		if !present {
			continue
		}
		switch v := raw.(type) {
		case nil:
			return map[string]any{}, true
		case map[string]any:
			return v, true
		case string:
			if strings.TrimSpace(v) == "" {
				return map[string]any{}, true
			}
			var args map[string]any
			if err := json.Unmarshal([]byte(v), &args); err != nil {
				return nil, false
			}
			return args, true
		default:
			return nil, false
		}
	}
	return map[string]any{}, true
}

func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// parseTagRecord parses <function=NAME> ... </function>. The closing tag is
// required.
func parseTagRecord(body string) (Call, bool) {
	loc := functionOpenRe.FindStringSubmatchIndex(body)
	if loc == nil {
		return Call{}, false
	}
	name := strings.TrimSpace(body[loc[2]:loc[3]])
	rest := body[loc[1]:]
	end := strings.Index(rest, functionClose)
	if name == "" || end < 0 {
		return Call{}, false
	}
	return Call{Name: name, Arguments: tagParameters(rest[:end])}, true
}

func tagParameters(body string) map[string]any {
	args := map[string]any{}
	for _, m := range parameterRe.FindAllStringSubmatch(body, -1) {
		key := strings.TrimSpace(m[1])
		if key == "" {
			continue
		}
		args[key] = trimValue(m[2])
	}
	return args
}

// trimValue drops one leading and one trailing newline, the layout models use
// to put a parameter value on its own line.
func trimValue(v string) string {
	v = strings.TrimPrefix(v, "\r\n")
	v = strings.TrimPrefix(v, "\n")
	v = strings.TrimSuffix(v, "\n")
	v = strings.TrimSuffix(v, "\r")
	return v
}

func salvage(body string) Call {
	call := Call{
		Encoding:  EncodingSalvaged,
		Malformed: true,
		Raw:       body,
		Arguments: tagParameters(body),
	}
	if m := functionOpenRe.FindStringSubmatch(body); m != nil {
		call.Name = strings.TrimSpace(m[1])
	} else if m := salvageNameRe.FindStringSubmatch(body); m != nil {
		call.Name = strings.TrimSpace(m[1])
	}
	return call
}
