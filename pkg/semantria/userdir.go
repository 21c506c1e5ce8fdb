package semantria

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/semantria/semantria-go/pkg/semantria/serializer"
	"github.com/spf13/afero"
)

// ArchiveType is the container format of a user directory export.
type ArchiveType string

const (
	ArchiveZip   ArchiveType = "zip"
	ArchiveTar   ArchiveType = "tar"
	ArchiveTarGz ArchiveType = "tar.gz"
)

// ArchiveFromPath picks the archive type from a file name, zip by default.
func ArchiveFromPath(path string) ArchiveType {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return ArchiveTarGz
	case strings.HasSuffix(name, ".tar"):
		return ArchiveTar
	}
	return ArchiveZip
}

// sniffed is the extension filetype reports for each archive type.
func (a ArchiveType) sniffed() string {
	if a == ArchiveTarGz {
		return "gz"
	}
	return string(a)
}

// GetUserDirectory downloads the salience user directory of a configuration
// as raw archive bytes. The request is not suffixed with the wire format.
func (s *Session) GetUserDirectory(ctx context.Context, configID string, archive ArchiveType) (Result[[]byte], error) {
	switch archive {
	case "":
		archive = ArchiveZip
	case ArchiveZip, ArchiveTar, ArchiveTarGz:
	default:
		return Result[[]byte]{}, ErrInvalidArgument.Msgf("unsupported archive type %q", archive)
	}
	return do(ctx, s, call{
		kind:   "user-directory",
		method: http.MethodGet,
		path:   "salience/user-directory." + string(archive),
		query:  configQuery(configID),
		binary: true,
	}, func(_ serializer.Serializer, data []byte) ([]byte, error) {
		return append([]byte(nil), data...), nil
	})
}

// WriteUserDirectoryToFile downloads the user directory into path, choosing
// the archive type from its extension. Nothing is written for a 202.
func (s *Session) WriteUserDirectoryToFile(ctx context.Context, configID, path string) (int, error) {
	if path == "" {
		return 0, ErrInvalidArgument.Msg("path is required")
	}
	archive := ArchiveFromPath(path)
	res, err := s.GetUserDirectory(ctx, configID, archive)
	if err != nil || !res.OK() {
		return res.Status, err
	}
	kind, err := filetype.Match(res.Value)
	if err != nil || kind.Extension != archive.sniffed() {
		return res.Status, ErrUnexpectedPayload.Msgf("expected a %s archive, got %q", archive, kind.MIME.Value)
	}
	if err := afero.WriteFile(s.fs, path, res.Value, 0o644); err != nil {
		return res.Status, err
	}
	s.logger.Info().Str("path", path).Int("bytes", len(res.Value)).Msg("user directory written")
	return res.Status, nil
}
