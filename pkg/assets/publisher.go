package assets

import (
	"bytes"

	"github.com/agentstation/arcade/pkg/errors"
)

// Publisher copies source assets into the output store.
type Publisher struct {
	src   Repository
	dst   Store
	count int
}

// NewPublisher creates a publisher reading from src and writing to dst.
func NewPublisher(src Repository, dst Store) *Publisher {
	return &Publisher{src: src, dst: dst}
}

// Source returns the repository the publisher reads from.
func (p *Publisher) Source() Repository {
	return p.src
}

// Copy publishes the source file at src to the output key dst. It returns a
// NotFoundError when src does not exist.
func (p *Publisher) Copy(src, dst string) error {
	if !Exists(p.src, src) {
		return &errors.NotFoundError{Resource: "asset", ID: src}
	}

	rc, err := p.src.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	if err := p.dst.Put(dst, rc); err != nil {
		return err
	}
	p.count++
	return nil
}

// Mirror publishes key to the same relative path in the output.
func (p *Publisher) Mirror(key string) error {
	return p.Copy(key, key)
}

// TryMirror publishes key when it exists and reports whether it was published.
func (p *Publisher) TryMirror(key string) bool {
	return p.Mirror(key) == nil
}

// Write stores generated content at the output key dst.
func (p *Publisher) Write(dst string, data []byte) error {
	if err := p.dst.Put(dst, bytes.NewReader(data)); err != nil {
		return err
	}
	p.count++
	return nil
}

// Clean removes previously published files with ext directly under dir.
func (p *Publisher) Clean(dir, ext string) error {
	return p.dst.Clean(dir, ext)
}

// Count returns the number of files published so far.
func (p *Publisher) Count() int {
	return p.count
}
