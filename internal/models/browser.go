// Package models contains data structures shared between services and handlers
package models

import "time"

// ObjectEntry is a single row of the current listing. A folder entry's key
// always ends in "/" and represents a common prefix, not a stored object.
type ObjectEntry struct {
	Key           string    `json:"key"`
	IsFolder      bool      `json:"isFolder"`
	Size          uint64    `json:"size,omitempty"`
	FormattedSize string    `json:"formattedSize,omitempty"`
	LastModified  time.Time `json:"lastModified,omitzero"`
}

// Breadcrumb is one navigable segment of the current path. Prefix is the
// prefix to navigate to when the segment is activated; the root segment has
// an empty Bucket.
type Breadcrumb struct {
	Name   string `json:"name"`
	Bucket string `json:"bucket"`
	Prefix string `json:"prefix"`
}

// BucketEntry describes a bucket, with usage figures when the store's admin
// API is reachable.
type BucketEntry struct {
	Name          string    `json:"name"`
	CreatedAt     time.Time `json:"createdAt"`
	Size          uint64    `json:"size"`
	FormattedSize string    `json:"formattedSize"`
}

// UploadTask is a point-in-time snapshot of one in-flight upload.
type UploadTask struct {
	ID        string `json:"id"`
	FileName  string `json:"fileName"`
	TargetKey string `json:"targetKey"`
	Progress  int    `json:"progress"`
	Terminal  bool   `json:"terminal"`
}

// DeleteOutcome aggregates the result of a bulk delete.
type DeleteOutcome struct {
	Requested  int      `json:"requested"`
	Deleted    int      `json:"deleted"`
	FailedKeys []string `json:"failedKeys,omitempty"`
}

// Download holds a fully buffered object body plus the hints the environment
// needs to save it as a local file.
type Download struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ObjectStat is the metadata view of a single stored object.
type ObjectStat struct {
	Key           string    `json:"key"`
	Size          int64     `json:"size"`
	FormattedSize string    `json:"formattedSize"`
	ContentType   string    `json:"contentType"`
	ETag          string    `json:"etag"`
	LastModified  time.Time `json:"lastModified"`
}

// SavedConnection is one named entry of the local connection list.
type SavedConnection struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Endpoint  string `json:"endpoint" yaml:"endpoint"`
	AccessKey string `json:"accessKey" yaml:"access_key"`
	SecretKey string `json:"secretKey" yaml:"secret_key"`
	Region    string `json:"region,omitempty" yaml:"region,omitempty"`
	UseSSL    bool   `json:"useSSL" yaml:"use_ssl"`
}
