package document

import (
	"bytes"
	"fmt"

	"github.com/fumiama/go-docx"
	"go.uber.org/zap"

	"github.com/lirunlin/qianbao/internal/model"
)

// Font and size configuration for the notice. Sizes are half-points,
// fixed by the document contract.
const (
	fontSong = "仿宋"
	fontHei  = "黑体"

	sizeTitle   = "36"
	sizeContent = "32"
	sizeTable   = "24"

	// firstLineIndent stands in for a hanging first-line indent: two
	// full-width spaces, the usual form in Chinese official documents.
	firstLineIndent = "　　"

	organizationName = "复星保德信四川分公司"
)

// NoticeBuilder renders ActivityData into a Word training notice.
type NoticeBuilder struct {
	logger *zap.Logger
}

// NewNoticeBuilder creates a new NoticeBuilder.
func NewNoticeBuilder(logger *zap.Logger) *NoticeBuilder {
	return &NoticeBuilder{logger: logger}
}

// NoticeFilename derives the download name from the activity date
// (digits only) and the channel name.
func NoticeFilename(data *model.ActivityData) (string, error) {
	digits, err := dateDigits(data.ActivityDate)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s培训活动通知.docx", digits, data.ChannelName), nil
}

// Build renders the notice document and returns the encoded .docx
// bytes. Unparsable date fields fail before any content is emitted.
func (b *NoticeBuilder) Build(data *model.ActivityData) ([]byte, error) {
	y, m, d, err := splitDate(data.ActivityDate)
	if err != nil {
		return nil, fmt.Errorf("activity date: %w", err)
	}
	weekday, err := Weekday(data.ActivityDate)
	if err != nil {
		return nil, fmt.Errorf("activity date: %w", err)
	}
	sy, sm, sd, err := splitDate(data.SubmitDate)
	if err != nil {
		return nil, fmt.Errorf("submit date: %w", err)
	}

	doc := docx.New().WithDefaultTheme()

	// Centered bold title
	title := doc.AddParagraph().Justification("center")
	title.AddText(fmt.Sprintf("关于举办%s与%s团队的培训通知", organizationName, data.ChannelName)).
		Size(sizeTitle).Font(fontHei, fontHei, fontHei, fontHei).Bold()

	// Indented body paragraph with date and weekday
	body := doc.AddParagraph()
	body.AddText(fmt.Sprintf("%s根据四川分公司中介条线发展规划，分公司定于 %s 年 %s 月 %s 日（星期%s）举办与%s团队的培训。具体安排如下：",
		firstLineIndent, y, m, d, weekday, data.ChannelName)).
		Size(sizeContent).Font(fontSong, fontSong, fontSong, fontSong)

	// Labeled sections with bold prefix and plain value
	sections := []struct {
		label string
		value string
	}{
		{"一、活动时间：", fmt.Sprintf("%s年%s月%s日 %s至%s", y, m, d, data.StartTime, data.EndTime)},
		{"二、活动地点：", data.Location},
		{"三、参加人员：", data.ParticipantsDesc},
	}
	for _, s := range sections {
		p := doc.AddParagraph()
		p.AddText(s.label).Size(sizeContent).Font(fontSong, fontSong, fontSong, fontSong).Bold()
		p.AddText(s.value).Size(sizeContent).Font(fontSong, fontSong, fontSong, fontSong)
	}

	// Schedule table: header row plus one row per schedule entry
	table := doc.AddTable(len(data.Schedule)+1, 3, 8640, nil)
	headers := []string{"时间", "内容", "主讲人"}
	for col, h := range headers {
		cell := table.TableRows[0].TableCells[col]
		cell.AddParagraph().Justification("center").
			AddText(h).Size(sizeTable).Font(fontSong, fontSong, fontSong, fontSong)
	}
	for i, item := range data.Schedule {
		row := table.TableRows[i+1]
		values := []string{item.Time, item.Content, item.Speaker}
		for col, v := range values {
			row.TableCells[col].AddParagraph().Justification("center").
				AddText(v).Size(sizeTable).Font(fontSong, fontSong, fontSong, fontSong)
		}
	}

	// Right-aligned signature block
	sig := doc.AddParagraph().Justification("right")
	sig.AddText(organizationName).Size(sizeContent).Font(fontSong, fontSong, fontSong, fontSong)
	date := doc.AddParagraph().Justification("right")
	date.AddText(fmt.Sprintf("%s年%s月%s日", sy, sm, sd)).
		Size(sizeContent).Font(fontSong, fontSong, fontSong, fontSong)

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		b.logger.Error("Failed to encode notice document", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}

	b.logger.Info("Notice document generated",
		zap.String("channel_name", data.ChannelName),
		zap.String("activity_date", data.ActivityDate),
		zap.Int("schedule_rows", len(data.Schedule)))

	return buf.Bytes(), nil
}
