package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymate/studymate/plugin/ai/timeparse"
	"github.com/studymate/studymate/server/uis"
)

// fakeAPI serves a fixed timetable; only FetchWeekSchedule is exercised here.
type fakeAPI struct {
	schedule *uis.SemesterSchedule
	err      error
	calls    int
}

func (f *fakeAPI) Login(ctx context.Context, username, password string) (*uis.LoginResult, error) {
	return nil, nil
}

func (f *fakeAPI) CurrentSemester(ctx context.Context, token string, today time.Time) (*uis.Semester, error) {
	return nil, nil
}

func (f *fakeAPI) FetchWeekSchedule(ctx context.Context, token string, semesterID int) (*uis.SemesterSchedule, error) {
	f.calls++
	return f.schedule, f.err
}

func (f *fakeAPI) FetchExamSchedule(ctx context.Context, token string, semesterID int, midterm bool) ([]uis.Exam, error) {
	return nil, nil
}

func classOn(day, subject, code string, period int) uis.ClassEntry {
	return uis.ClassEntry{
		TenMon:       subject,
		MaMon:        code,
		MaPhong:      "2A08",
		NgayHoc:      day,
		TietBatDau:   period,
		SoTiet:       2,
		SoTinChi:     3,
		TenGiangVien: "Nguyễn Văn A",
	}
}

func testTimetable() *uis.SemesterSchedule {
	return &uis.SemesterSchedule{
		HocKy: uis.Semester{HocKy: 20251, TenHocKy: "Học kỳ 1 năm 2025"},
		Weeks: []uis.Week{
			{
				Tuan:        10,
				NgayBatDau:  "07/04/2025",
				NgayKetThuc: "13/04/2025",
				Classes: []uis.ClassEntry{
					classOn("2025-04-10T00:00:00", "Lập trình Web", "INT1340", 4),
					classOn("2025-04-10T00:00:00", "Giải tích 1", "BAS1203", 1),
					classOn("2025-04-11T00:00:00", "Cơ sở dữ liệu", "INT1313", 1),
				},
			},
			{
				Tuan:        11,
				NgayBatDau:  "14/04/2025",
				NgayKetThuc: "20/04/2025",
				Classes: []uis.ClassEntry{
					classOn("2025-04-14T00:00:00", "Lập trình Web", "INT1340", 1),
				},
			},
		},
	}
}

var session = Session{Token: "token-123", SemesterID: 20251}

func day(d int) time.Time {
	return time.Date(2025, 4, d, 0, 0, 0, 0, time.UTC)
}

func TestLookupSingleDay(t *testing.T) {
	api := &fakeAPI{schedule: testTimetable()}
	svc := NewService(api)

	ref := timeparse.DateReference{Kind: timeparse.KindSingle, Date: day(10), Type: timeparse.TypeToday}
	result, err := svc.Lookup(context.Background(), session, ref)
	require.NoError(t, err)
	require.Len(t, result.Days, 1)
	require.Len(t, result.Days[0].Classes, 2)
	// Sorted by starting period.
	assert.Equal(t, "Giải tích 1", result.Days[0].Classes[0].TenMon)
	assert.Equal(t, "Lập trình Web", result.Days[0].Classes[1].TenMon)
	assert.Equal(t, 1, api.calls)
}

func TestLookupEmptyDayIsNotAnError(t *testing.T) {
	svc := NewService(&fakeAPI{schedule: testTimetable()})

	ref := timeparse.DateReference{Kind: timeparse.KindSingle, Date: day(12), Type: timeparse.TypeSaturday}
	result, err := svc.Lookup(context.Background(), session, ref)
	require.NoError(t, err)
	require.Len(t, result.Days, 1)
	assert.Empty(t, result.Days[0].Classes)
}

func TestLookupWeekRange(t *testing.T) {
	svc := NewService(&fakeAPI{schedule: testTimetable()})

	ref := timeparse.DateReference{Kind: timeparse.KindRange, Start: day(7), End: day(13), Type: timeparse.TypeThisWeek}
	result, err := svc.Lookup(context.Background(), session, ref)
	require.NoError(t, err)
	require.Len(t, result.Days, 7)
	assert.False(t, result.Truncated)

	// Chronological order, each day stamped with its source date.
	for i, daySchedule := range result.Days {
		assert.Equal(t, day(7+i), daySchedule.Date)
	}
	assert.Len(t, result.Days[3].Classes, 2)
	assert.Len(t, result.Days[4].Classes, 1)
	assert.Empty(t, result.Days[0].Classes)
}

func TestLookupMonthRangeIsBounded(t *testing.T) {
	svc := NewService(&fakeAPI{schedule: testTimetable()})

	ref := timeparse.DateReference{Kind: timeparse.KindRange, Start: day(1), End: day(30), Type: timeparse.TypeThisMonth}
	result, err := svc.Lookup(context.Background(), session, ref)
	require.NoError(t, err)
	assert.Len(t, result.Days, 14)
	assert.True(t, result.Truncated)
	assert.Equal(t, day(1), result.Days[0].Date)
	assert.Equal(t, day(14), result.Days[13].Date)
}

func TestLookupMultipleDays(t *testing.T) {
	svc := NewService(&fakeAPI{schedule: testTimetable()})

	ref := timeparse.DateReference{
		Kind:  timeparse.KindMultiple,
		Dates: []time.Time{day(14), day(10)},
		Type:  timeparse.TypeMultipleDays,
	}
	result, err := svc.Lookup(context.Background(), session, ref)
	require.NoError(t, err)
	require.Len(t, result.Days, 2)
	assert.Equal(t, day(10), result.Days[0].Date)
	assert.Equal(t, day(14), result.Days[1].Date)
	assert.Len(t, result.Days[1].Classes, 1)
}

func TestLookupPropagatesAPIErrors(t *testing.T) {
	svc := NewService(&fakeAPI{err: assert.AnError})

	ref := timeparse.DateReference{Kind: timeparse.KindSingle, Date: day(10), Type: timeparse.TypeToday}
	_, err := svc.Lookup(context.Background(), session, ref)
	assert.Error(t, err)
}

func TestFormatDayWithClasses(t *testing.T) {
	svc := NewService(&fakeAPI{schedule: testTimetable()})

	ref := timeparse.DateReference{Kind: timeparse.KindSingle, Date: day(10), Type: timeparse.TypeToday}
	result, err := svc.Lookup(context.Background(), session, ref)
	require.NoError(t, err)

	text := Format(result)
	assert.Contains(t, text, "Lịch học Thứ Năm, ngày 10/04/2025 - Học kỳ 1 năm 2025:")
	assert.Contains(t, text, "1. Giải tích 1 (BAS1203)")
	assert.Contains(t, text, "2. Lập trình Web (INT1340)")
	assert.Contains(t, text, "Tiết 4 - 5")
	assert.Contains(t, text, "Phòng 2A08")
	assert.Contains(t, text, "Nguyễn Văn A")
	assert.Contains(t, text, "Số tín chỉ: 3")
}

func TestFormatEmptyDay(t *testing.T) {
	svc := NewService(&fakeAPI{schedule: testTimetable()})

	ref := timeparse.DateReference{Kind: timeparse.KindSingle, Date: day(12), Type: timeparse.TypeSaturday}
	result, err := svc.Lookup(context.Background(), session, ref)
	require.NoError(t, err)

	text := Format(result)
	assert.Contains(t, text, "Không có lớp học nào vào Thứ Bảy, ngày 12/04/2025")
}
