package exam

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymate/studymate/plugin/ai/timeparse"
	"github.com/studymate/studymate/server/uis"
)

type fakeAPI struct {
	exams       []uis.Exam
	err         error
	lastMidterm bool
}

func (f *fakeAPI) Login(ctx context.Context, username, password string) (*uis.LoginResult, error) {
	return nil, nil
}

func (f *fakeAPI) CurrentSemester(ctx context.Context, token string, today time.Time) (*uis.Semester, error) {
	return nil, nil
}

func (f *fakeAPI) FetchWeekSchedule(ctx context.Context, token string, semesterID int) (*uis.SemesterSchedule, error) {
	return nil, nil
}

func (f *fakeAPI) FetchExamSchedule(ctx context.Context, token string, semesterID int, midterm bool) ([]uis.Exam, error) {
	f.lastMidterm = midterm
	return f.exams, f.err
}

func testExams() []uis.Exam {
	return []uis.Exam{
		{TenMon: "Giải tích 1", MaMon: "BAS1203", KyThi: "Thi cuối kỳ", HinhThucThi: "Tự luận", SoPhut: 90, GioBatDau: "07:00", NgayThi: "19/04/2025", MaPhong: "2B11", DiaDiemThi: "Cơ sở Hà Đông"},
		{TenMon: "Lập trình Web", MaMon: "INT1340", KyThi: "Thi cuối kỳ", HinhThucThi: "Vấn đáp", SoPhut: 60, GioBatDau: "09:30", NgayThi: "22/04/2025", MaPhong: "2A08", DiaDiemThi: "Cơ sở Hà Đông"},
		{TenMon: "Triết học Mác - Lênin", MaMon: "BAS1150", KyThi: "Thi cuối kỳ", HinhThucThi: "Trắc nghiệm", SoPhut: 60, GioBatDau: "13:00", NgayThi: "05/05/2025", MaPhong: "3B02", DiaDiemThi: "Cơ sở Hà Đông"},
	}
}

var session = Session{Token: "token-123", SemesterID: 20251}

func day(month time.Month, d int) time.Time {
	return time.Date(2025, month, d, 0, 0, 0, 0, time.UTC)
}

func TestLookupAllWithoutFilter(t *testing.T) {
	api := &fakeAPI{exams: testExams()}
	svc := NewService(api)

	// A default reference means the question carried no usable date.
	query := Query{Reference: timeparse.DateReference{Kind: timeparse.KindSingle, Type: timeparse.TypeDefault}}
	result, err := svc.Lookup(context.Background(), session, query)
	require.NoError(t, err)
	assert.Equal(t, FilterAll, result.FilterType)
	assert.Len(t, result.Exams, 3)
	assert.False(t, api.lastMidterm)
}

func TestLookupByDate(t *testing.T) {
	svc := NewService(&fakeAPI{exams: testExams()})

	query := Query{Reference: timeparse.DateReference{
		Kind: timeparse.KindSingle, Date: day(time.April, 19), Type: timeparse.TypeSpecificDate,
	}}
	result, err := svc.Lookup(context.Background(), session, query)
	require.NoError(t, err)
	assert.Equal(t, FilterDate, result.FilterType)
	assert.Equal(t, "19/04/2025", result.FilterValue)
	require.Len(t, result.Exams, 1)
	assert.Equal(t, "Giải tích 1", result.Exams[0].TenMon)
}

func TestLookupByDateRange(t *testing.T) {
	svc := NewService(&fakeAPI{exams: testExams()})

	query := Query{Reference: timeparse.DateReference{
		Kind: timeparse.KindRange, Start: day(time.April, 14), End: day(time.April, 27), Type: timeparse.TypeDateRange,
	}}
	result, err := svc.Lookup(context.Background(), session, query)
	require.NoError(t, err)
	assert.Equal(t, FilterDateRange, result.FilterType)
	require.Len(t, result.Exams, 2)
	assert.Equal(t, "Giải tích 1", result.Exams[0].TenMon)
	assert.Equal(t, "Lập trình Web", result.Exams[1].TenMon)
}

func TestLookupBySubject(t *testing.T) {
	svc := NewService(&fakeAPI{exams: testExams()})

	query := Query{
		Reference:      timeparse.DateReference{Kind: timeparse.KindSingle, Type: timeparse.TypeDefault},
		SubjectKeyword: "giải tích",
	}
	result, err := svc.Lookup(context.Background(), session, query)
	require.NoError(t, err)
	assert.Equal(t, FilterSubject, result.FilterType)
	require.Len(t, result.Exams, 1)
	assert.Equal(t, "BAS1203", result.Exams[0].MaMon)

	// Codes match too.
	query.SubjectKeyword = "int1340"
	result, err = svc.Lookup(context.Background(), session, query)
	require.NoError(t, err)
	require.Len(t, result.Exams, 1)
	assert.Equal(t, "Lập trình Web", result.Exams[0].TenMon)
}

func TestLookupMidtermFlagIsForwarded(t *testing.T) {
	api := &fakeAPI{exams: testExams()}
	svc := NewService(api)

	query := Query{
		Reference: timeparse.DateReference{Kind: timeparse.KindSingle, Type: timeparse.TypeDefault},
		Midterm:   true,
	}
	result, err := svc.Lookup(context.Background(), session, query)
	require.NoError(t, err)
	assert.True(t, api.lastMidterm)
	assert.True(t, result.Midterm)
}

func TestFormatExams(t *testing.T) {
	result := &Result{Exams: testExams()[:1]}

	text := Format(result)
	assert.Contains(t, text, "1. Giải tích 1 (BAS1203)")
	assert.Contains(t, text, "Thi cuối kỳ")
	assert.Contains(t, text, "Hình thức: Tự luận")
	assert.Contains(t, text, "Thời gian: 07:00, 90 phút, ngày 19/04/2025")
	assert.Contains(t, text, "Phòng thi: 2B11, Cơ sở Hà Đông")
}

func TestFormatEmpty(t *testing.T) {
	assert.Equal(t, "Không tìm thấy lịch thi nào phù hợp với yêu cầu.", Format(&Result{}))
}
