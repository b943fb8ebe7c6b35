package source

import (
	"bufio"
	"io"
	"io/fs"

	"github.com/erbsland-dev/erbsland-conf-go/lexer"
)

// fsByteSource adapts an fs.FS file into a lexer.ByteSource, the same
// line-framing contract as lexer.OpenFileByteSource but reading through
// an arbitrary fs.FS instead of the real OS filesystem — used when a
// Resolver is built over an in-memory tree (source.NewFSResolver).
type fsByteSource struct {
	id   lexer.SourceIdentifier
	f    fs.File
	r    *bufio.Reader
	line []byte
}

func newFSByteSource(fsys fs.FS, relPath string) (lexer.ByteSource, error) {
	f, err := fsys.Open(relPath)
	if err != nil {
		id := lexer.NewFileSourceIdentifier("/" + relPath)
		return nil, lexer.Error{Category: lexer.IO, Message: err.Error(), Location: lexer.Location{Source: id}}
	}
	return &fsByteSource{
		id: lexer.NewFileSourceIdentifier("/" + relPath),
		f:  f,
		r:  bufio.NewReaderSize(f, lexer.MaxLineLength+2),
	}, nil
}

func (s *fsByteSource) Identifier() lexer.SourceIdentifier { return s.id }

func (s *fsByteSource) ReadLine() ([]byte, error) {
	var line []byte
	for {
		chunk, err := s.r.ReadBytes('\n')
		line = append(line, chunk...)
		content := len(line)
		if err == nil {
			content-- // the '\n' terminator
			if content > 0 && line[content-1] == '\r' {
				content--
			}
		}
		if content > lexer.MaxLineLength {
			return nil, lexer.Error{Category: lexer.LimitExceeded, Message: "line exceeds the maximum line length", Location: lexer.Location{Source: s.id}}
		}
		if err == nil {
			return line, nil
		}
		if err == io.EOF {
			if len(line) == 0 {
				return nil, io.EOF
			}
			return line, nil
		}
		return nil, lexer.Error{Category: lexer.IO, Message: err.Error(), Location: lexer.Location{Source: s.id}}
	}
}

func (s *fsByteSource) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	if err != nil {
		return lexer.Error{Category: lexer.IO, Message: err.Error(), Location: lexer.Location{Source: s.id}}
	}
	return nil
}
