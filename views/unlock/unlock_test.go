package unlock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	out := Render(CreateForm("/tmp/main.wallet"), Info{Address: "cirqAbcdefghijklmnopqrstuvwxyz", ScanHeight: 1200}, "")
	assert.Contains(t, out, "Open Wallet")
	assert.Contains(t, out, "1200")

	out = Render(nil, Info{Address: "cirqAbcdefghijklmnopqrstuvwxyz", ScanHeight: 1200, Locked: true}, "Wrong password")
	assert.Contains(t, out, "Wallet Locked")
	assert.NotContains(t, out, "1200")
	assert.Contains(t, out, "Wrong password")
}
