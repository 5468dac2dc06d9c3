package restyutil

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"
)

// writeHeaders writes one "Key: Value" line per header value, keys sorted.
func writeHeaders(out *strings.Builder, headers http.Header) {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		for _, v := range headers[k] {
			fmt.Fprintf(out, "%s: %s\n", k, v)
		}
	}
}

// requestBody returns a copy of the body sent with req, "" when there is
// none. The original body has already been consumed by the transport.
func requestBody(req *http.Request) string {
	if req == nil || req.Body == nil || req.Body == http.NoBody || req.GetBody == nil {
		return ""
	}
	body, err := req.GetBody()
	if err != nil {
		return fmt.Sprintf("<unreadable body: %s>", err)
	}
	if body == nil {
		return ""
	}
	defer body.Close()

	contents, err := io.ReadAll(body)
	if err != nil {
		return fmt.Sprintf("<unreadable body: %s>", err)
	}
	return string(contents)
}

// dumpExchange renders a finished request and its response as plain text.
func dumpExchange(res *resty.Response) string {
	var out strings.Builder

	out.WriteString("---- REQUEST ----\n\n")
	fmt.Fprintf(&out, "%s %s\n\n", res.Request.Method, res.Request.URL)
	if raw := res.Request.RawRequest; raw != nil {
		writeHeaders(&out, raw.Header)
		out.WriteString("\n")
		out.WriteString(requestBody(raw))
		out.WriteString("\n")
	}

	out.WriteString("\n---- RESPONSE ----\n\n")
	location := res.Request.URL
	if res.RawResponse != nil {
		if redirected, err := res.RawResponse.Location(); err == nil {
			location = redirected.String()
		}
	}
	fmt.Fprintf(&out, "%d %s\n\n", res.StatusCode(), location)
	writeHeaders(&out, res.Header())
	out.WriteString("\n")
	out.WriteString(res.String())

	return out.String()
}
