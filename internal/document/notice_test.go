package document

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lirunlin/qianbao/internal/model"
)

func TestWeekday(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		want    string
		wantErr bool
	}{
		{"saturday", "2024-06-15", "六", false},
		{"sunday", "2024-06-16", "日", false},
		{"monday", "2024-06-17", "一", false},
		{"empty", "", "", true},
		{"garbage", "not-a-date", "", true},
		{"wrong layout", "15/06/2024", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Weekday(tt.date)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitDateKeepsZeroPadding(t *testing.T) {
	y, m, d, err := splitDate("2024-06-05")
	require.NoError(t, err)
	assert.Equal(t, "2024", y)
	assert.Equal(t, "06", m)
	assert.Equal(t, "05", d)
}

func TestNoticeFilename(t *testing.T) {
	data := &model.ActivityData{
		ActivityDate: "2024-06-15",
		ChannelName:  "示例渠道",
	}
	name, err := NoticeFilename(data)
	require.NoError(t, err)
	assert.Equal(t, "20240615示例渠道培训活动通知.docx", name)

	data.ActivityDate = "invalid"
	_, err = NoticeFilename(data)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestNoticeBuild(t *testing.T) {
	builder := NewNoticeBuilder(zap.NewNop())
	data := model.DefaultActivityData(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))

	blob, err := builder.Build(data)
	require.NoError(t, err)
	require.NotEmpty(t, blob)

	// .docx is a zip container
	assert.Equal(t, byte('P'), blob[0])
	assert.Equal(t, byte('K'), blob[1])
}

func TestNoticeBuildFailsFastOnBadDates(t *testing.T) {
	builder := NewNoticeBuilder(zap.NewNop())

	data := model.DefaultActivityData(time.Now())
	data.ActivityDate = "2024/06/15"
	_, err := builder.Build(data)
	assert.ErrorIs(t, err, ErrInvalidDate)

	data = model.DefaultActivityData(time.Now())
	data.SubmitDate = ""
	_, err = builder.Build(data)
	assert.ErrorIs(t, err, ErrInvalidDate)
}
