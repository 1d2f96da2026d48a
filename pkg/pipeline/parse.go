package pipeline

import (
	"bytes"
	"errors"
	"io/fs"
	"os"

	perrors "github.com/matzehuels/studytree/pkg/errors"
	"github.com/matzehuels/studytree/pkg/pgn"
)

// ReadSource reads a PGN file. A missing file is reported as
// ErrCodeFileNotFound, any other failure as ErrCodeInvalidPath.
func ReadSource(path string) ([]byte, error) {
	if err := perrors.ValidateInputPath(path); err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, perrors.New(perrors.ErrCodeFileNotFound, "file not found: %s", path)
	}
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidPath, err, "cannot read %s", path)
	}
	if info.IsDir() {
		return nil, perrors.New(perrors.ErrCodeInvalidPath, "%s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidPath, err, "cannot read %s", path)
	}
	return data, nil
}

// Parse reads every game of a PGN document. name identifies the source in
// error messages. A document without games is reported as
// ErrCodeGameNotFound; malformed PGN as ErrCodeInvalidPGN with the line and
// column of the problem.
func Parse(src []byte, name string) ([]*pgn.Game, error) {
	games, err := pgn.ParseAll(bytes.NewReader(src))
	switch {
	case errors.Is(err, pgn.ErrNoGames), err == nil && len(games) == 0:
		return nil, perrors.New(perrors.ErrCodeGameNotFound, "no games in %s", name)
	case pgn.IsParseError(err):
		return nil, perrors.Wrap(perrors.ErrCodeInvalidPGN, err, "invalid PGN in %s", name)
	case err != nil:
		return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "read %s", name)
	}
	return games, nil
}

// SelectGame returns the game with the given 1-based index.
func SelectGame(games []*pgn.Game, index int) (*pgn.Game, error) {
	if index < 1 || index > len(games) {
		return nil, perrors.New(perrors.ErrCodeGameNotFound,
			"game %d not found (file has %d %s)", index, len(games), plural(len(games), "game", "games"))
	}
	return games[index-1], nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
