package console

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Transcript tests compare a whole scripted session, menus and escape
// sequences included, against a golden file. Regenerate with:
//
//	go test ./internal/console -update

func newTranscriptGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestAdminSessionTranscript(t *testing.T) {
	f := newFixture(t, "2 admin\n"+testSecret+"\n4 alpha\n4 beta\n3 alpha\n3 *\n5\ny\n3 *\n1\n")
	f.run(t)

	g := newTranscriptGoldie(t)
	g.Assert(t, "admin_session", f.out.Bytes())
}

func TestRestrictedSessionTranscript(t *testing.T) {
	f := newFixture(t, "3 *\n4 alpha\n1\n")
	f.run(t)

	g := newTranscriptGoldie(t)
	g.Assert(t, "restricted_session", f.out.Bytes())
}
