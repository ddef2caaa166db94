package fetch

import (
	"fmt"
	"path"
	"strings"
)

// Ref scheme constants.
const (
	SchemeKaggle = "kaggle"
	SchemeS3     = "s3"
	SchemeHTTP   = "http"
)

// Ref is a parsed dataset reference.
//
//	kaggle:owner/dataset-name      Kaggle dataset
//	kaggle:c/competition-name      Kaggle competition
//	s3://bucket/path/to/object     object store
//	https://host/path/archive.zip  direct download
type Ref struct {
	Scheme string

	// kaggle
	Owner       string
	Name        string
	Competition bool

	// s3
	Bucket string
	Key    string

	// http
	URL string
}

// Parse classifies a raw dataset reference. Unknown schemes are an error.
func Parse(raw string) (*Ref, error) {
	switch {
	case strings.HasPrefix(raw, "kaggle:"):
		return parseKaggle(strings.TrimPrefix(raw, "kaggle:"))

	case strings.HasPrefix(raw, "s3://"):
		rest := strings.TrimPrefix(raw, "s3://")
		bucket, key, ok := strings.Cut(rest, "/")
		if !ok || bucket == "" || key == "" {
			return nil, fmt.Errorf("s3 ref %q: want s3://bucket/key", raw)
		}
		return &Ref{Scheme: SchemeS3, Bucket: bucket, Key: key}, nil

	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return &Ref{Scheme: SchemeHTTP, URL: raw}, nil

	default:
		return nil, fmt.Errorf("unknown dataset ref %q (want kaggle:, s3:// or http(s)://)", raw)
	}
}

func parseKaggle(rest string) (*Ref, error) {
	owner, name, ok := strings.Cut(rest, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return nil, fmt.Errorf("kaggle ref %q: want kaggle:owner/dataset or kaggle:c/competition", rest)
	}
	if owner == "c" {
		return &Ref{Scheme: SchemeKaggle, Name: name, Competition: true}, nil
	}
	return &Ref{Scheme: SchemeKaggle, Owner: owner, Name: name}, nil
}

// ArchiveName is the local file name the fetched artifact lands under.
func (r *Ref) ArchiveName() string {
	switch r.Scheme {
	case SchemeKaggle:
		return r.Name + ".zip"
	case SchemeS3:
		return path.Base(r.Key)
	default:
		name := path.Base(strings.SplitN(r.URL, "?", 2)[0])
		if name == "" || name == "/" || name == "." {
			name = "dataset.zip"
		}
		return name
	}
}

func (r *Ref) String() string {
	switch r.Scheme {
	case SchemeKaggle:
		if r.Competition {
			return "kaggle:c/" + r.Name
		}
		return "kaggle:" + r.Owner + "/" + r.Name
	case SchemeS3:
		return "s3://" + r.Bucket + "/" + r.Key
	default:
		return r.URL
	}
}
