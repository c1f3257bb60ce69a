package lsp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/felixgeelhaar/toolwire/internal/envelope"
)

// shape classifies a response payload before any decoding happens.
type shape int

const (
	shapeEmpty shape = iota
	shapeNull
	shapeEmptyList
	shapeObject
	shapeObjectList
	shapeString
	shapeOther
)

func (s shape) String() string {
	switch s {
	case shapeEmpty:
		return "empty body"
	case shapeNull:
		return "null"
	case shapeEmptyList:
		return "empty list"
	case shapeObject:
		return "object"
	case shapeObjectList:
		return "list of objects"
	case shapeString:
		return "string"
	default:
		return "value"
	}
}

// payload is the classified result member of a JSON-RPC response.
type payload struct {
	shape    shape
	value    gjson.Result
	rpcError string
}

// parse unwraps a JSON-RPC response body. A body that carries neither result
// nor error is itself the payload.
func parse(raw []byte) payload {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return payload{shape: shapeEmpty}
	}
	if !gjson.ValidBytes(raw) {
		return payload{shape: shapeOther}
	}

	root := gjson.ParseBytes(raw)
	if root.IsObject() {
		if e := root.Get("error"); e.Exists() && e.Type != gjson.Null {
			return payload{shape: shapeOther, rpcError: rpcErrorMessage(e)}
		}
		if r := root.Get("result"); r.Exists() {
			root = r
		}
	}
	return payload{shape: classify(root), value: root}
}

func classify(v gjson.Result) shape {
	switch {
	case v.Type == gjson.Null:
		return shapeNull
	case v.IsArray():
		items := v.Array()
		if len(items) == 0 {
			return shapeEmptyList
		}
		for _, item := range items {
			if !item.IsObject() {
				return shapeOther
			}
		}
		return shapeObjectList
	case v.IsObject():
		return shapeObject
	case v.Type == gjson.String:
		return shapeString
	default:
		return shapeOther
	}
}

func rpcErrorMessage(e gjson.Result) string {
	msg := e.Get("message").String()
	if msg == "" {
		msg = e.Raw
	}
	if code := e.Get("code"); code.Exists() {
		return fmt.Sprintf("%s (code %d)", msg, code.Int())
	}
	return msg
}

// settle decides the outcome of payloads that cannot carry entries. It
// reports false when the payload has one of the accepted shapes and should
// be decoded by the caller.
func (p payload) settle(request string, accept ...shape) (envelope.Status, bool) {
	switch {
	case p.shape == shapeEmpty:
		return envelope.Clean(), true
	case p.rpcError != "":
		return envelope.Unrecognized("%s request failed: %s", request, p.rpcError), true
	case p.shape == shapeNull, p.shape == shapeEmptyList:
		return envelope.NotFound(), true
	}
	for _, s := range accept {
		if p.shape == s {
			return envelope.Status{}, false
		}
	}
	return envelope.Unrecognized("unexpected %s in %s response", p.shape, request), true
}

// objects returns the payload as a list; a single object is a list of one.
func (p payload) objects() []gjson.Result {
	if p.shape == shapeObject {
		return []gjson.Result{p.value}
	}
	return p.value.Array()
}

func decode(v gjson.Result, out any) error {
	return json.Unmarshal([]byte(v.Raw), out)
}

var windowsDriveRe = regexp.MustCompile(`^/[A-Za-z]:`)

// uriToPath converts a file:// URI to a filesystem path. Other URIs are
// returned unchanged.
func uriToPath(uri string) string {
	if !strings.HasPrefix(uri, "file:") {
		return uri
	}
	u, err := url.Parse(uri)
	if err != nil {
		return strings.TrimPrefix(uri, "file://")
	}
	path := u.Path
	if windowsDriveRe.MatchString(path) {
		path = path[1:]
	}
	if u.Host != "" && u.Host != "localhost" {
		path = "//" + u.Host + path
	}
	return path
}

var symbolKindNames = map[int]string{
	1: "File", 2: "Module", 3: "Namespace", 4: "Package",
	5: "Class", 6: "Method", 7: "Property", 8: "Field",
	9: "Constructor", 10: "Enum", 11: "Interface", 12: "Function",
	13: "Variable", 14: "Constant", 15: "String", 16: "Number",
	17: "Boolean", 18: "Array", 19: "Object", 20: "Key",
	21: "Null", 22: "EnumMember", 23: "Struct", 24: "Event",
	25: "Operator", 26: "TypeParameter",
}

func symbolKindName(kind int) string {
	if name, ok := symbolKindNames[kind]; ok {
		return name
	}
	return fmt.Sprintf("Kind%d", kind)
}
