package apikey

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newTestKey(keys []string, rate int) (*RotatingKey, *time.Time) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	current := time.Unix(1700000000, 0)
	r := NewRotatingKey(keys, rate, logger)
	r.now = func() time.Time { return current }
	r.nextRotate = current.Add(r.rate)
	return r, &current
}

func TestRotatingKeyEmpty(t *testing.T) {
	r, _ := newTestKey(nil, 60)
	assert.Equal(t, "", r.Get())
}

func TestRotatingKeySingleNeverRotates(t *testing.T) {
	r, current := newTestKey([]string{"only"}, 60)
	assert.Equal(t, "only", r.Get())
	*current = current.Add(24 * time.Hour)
	assert.Equal(t, "only", r.Get())
}

func TestRotatingKeyRotatesOnSchedule(t *testing.T) {
	r, current := newTestKey([]string{"k1", "k2", "k3"}, 60)
	assert.Equal(t, "k1", r.Get())

	// 周期内不轮换
	*current = current.Add(59 * time.Minute)
	assert.Equal(t, "k1", r.Get())

	// 到点推进游标
	*current = current.Add(2 * time.Minute)
	assert.Equal(t, "k2", r.Get())

	// 绕回
	*current = current.Add(61 * time.Minute)
	assert.Equal(t, "k3", r.Get())
	*current = current.Add(61 * time.Minute)
	assert.Equal(t, "k1", r.Get())
}
