package x11

import (
	"testing"

	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/stretchr/testify/assert"
)

func TestAccumulateStruts_BottomPanelOnSecondMonitor(t *testing.T) {
	// Two 1920x1080 monitors side by side; a 40px panel only on the right one.
	right := span{1920, 0, 3840, 1080}
	left := span{0, 0, 1920, 1080}
	sp := &ewmh.WmStrutPartial{Bottom: 40, BottomStartX: 1920, BottomEndX: 3839}

	var accRight, accLeft struts
	accumulateStruts(right, 3840, 1080, sp, &accRight)
	accumulateStruts(left, 3840, 1080, sp, &accLeft)

	assert.Equal(t, struts{bottom: 40}, accRight)
	assert.Equal(t, struts{}, accLeft)
}

func TestAccumulateStruts_KeepsLargest(t *testing.T) {
	mon := span{0, 0, 1920, 1080}
	acc := struts{}
	accumulateStruts(mon, 1920, 1080, &ewmh.WmStrutPartial{Top: 24, TopEndX: 1919}, &acc)
	accumulateStruts(mon, 1920, 1080, &ewmh.WmStrutPartial{Top: 32, TopEndX: 1919}, &acc)
	accumulateStruts(mon, 1920, 1080, &ewmh.WmStrutPartial{Left: 64, LeftEndY: 1079}, &acc)

	assert.Equal(t, struts{top: 32, left: 64}, acc)
}

func TestMonitorContains(t *testing.T) {
	m := Monitor{X: 100, Y: 0, Width: 200, Height: 100}
	assert.True(t, m.contains(100, 0))
	assert.False(t, m.contains(300, 50))
	assert.False(t, m.contains(99, 50))
}
