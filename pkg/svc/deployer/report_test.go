package deployer_test

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/mdpipeline/mdpctl/pkg/svc/deployer"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	v := m.Run()

	snaps.Clean(m, snaps.CleanOpts{Sort: true})

	os.Exit(v)
}

func TestReportPrint(t *testing.T) {
	t.Parallel()

	report := deployer.Report{
		Stages: []deployer.StageReport{
			{Name: "namespace", Status: deployer.StatusDeployed, Duration: 1200 * time.Millisecond},
			{Name: "credentials", Status: deployer.StatusSkipped},
			{Name: "postgres", Status: deployer.StatusContinued, Detail: "timed out", Duration: 5 * time.Minute},
		},
		Quit: true,
	}

	var out bytes.Buffer

	report.Print(&out)

	snaps.MatchSnapshot(t, out.String())
}

func TestReportPrint_Empty(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	deployer.Report{}.Print(&out)

	assert.Empty(t, out.String())
}
