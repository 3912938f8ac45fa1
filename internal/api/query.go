package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/joestump/gift-certs/internal/service"
)

const defaultMaxPageSize = 200

// parseListOptions reads the listing query:
//
//	?apply=<op>:<value>&apply=...&tag=<name>&tag=...&page=<n>&size=<n>
//
// apply values keep their order in the URL. page defaults to 1 and size to
// maxSize; a larger size is capped at maxSize.
func parseListOptions(r *http.Request, maxSize int) (service.ListOptions, error) {
	q := r.URL.Query()
	opts := service.ListOptions{Page: 1, Size: maxSize}

	for _, raw := range q["apply"] {
		name, value, _ := strings.Cut(raw, ":")
		opts.Operations = append(opts.Operations, service.Operation{
			Name:  strings.TrimSpace(name),
			Value: value,
		})
	}

	for _, tag := range q["tag"] {
		if tag = strings.TrimSpace(tag); tag != "" {
			opts.TagNames = append(opts.TagNames, tag)
		}
	}

	if p := q.Get("page"); p != "" {
		page, err := strconv.Atoi(p)
		if err != nil || page < 1 {
			return opts, errors.New("page must be a positive integer")
		}
		opts.Page = page
	}

	if s := q.Get("size"); s != "" {
		size, err := strconv.Atoi(s)
		if err != nil || size < 1 {
			return opts, errors.New("size must be a positive integer")
		}
		opts.Size = min(size, maxSize)
	}

	return opts, nil
}

// parseID parses a positive certificate id from a path segment.
func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
