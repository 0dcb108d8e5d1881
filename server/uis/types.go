// Package uis talks to the PTIT university information system API:
// authentication, semesters, weekly timetables and exam schedules.
package uis

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DateLayout is the day-first format the university API uses for semester
// and exam dates.
const DateLayout = "02/01/2006"

// classDateLayout is the ISO day format used inside timetable entries,
// sometimes with a trailing time component.
const classDateLayout = "2006-01-02"

// LoginResult is the token envelope returned by the auth endpoint.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	UserName    string `json:"userName"`
	Result      string `json:"result"`
	// Expiry is set client side; the university tokens last about two hours.
	Expiry time.Time `json:"-"`
}

// Semester describes one semester as returned by the semester list endpoint.
type Semester struct {
	HocKy       int    `json:"hoc_ky"`
	TenHocKy    string `json:"ten_hoc_ky"`
	NgayBatDau  string `json:"ngay_bat_dau_hk"`
	NgayKetThuc string `json:"ngay_ket_thuc_hk"`
}

// Contains reports whether the semester's date range covers the given day.
func (s Semester) Contains(day time.Time) bool {
	start, err := time.Parse(DateLayout, s.NgayBatDau)
	if err != nil {
		return false
	}
	end, err := time.Parse(DateLayout, s.NgayKetThuc)
	if err != nil {
		return false
	}
	return !day.Before(start) && !day.After(end)
}

// ClassEntry is a single timetable entry within a week.
type ClassEntry struct {
	TenMon       string `json:"ten_mon"`
	TenMonEg     string `json:"ten_mon_eg"`
	MaMon        string `json:"ma_mon"`
	MaPhong      string `json:"ma_phong"`
	NgayHoc      string `json:"ngay_hoc"`
	ThuKieuSo    int    `json:"thu_kieu_so"`
	TietBatDau   int    `json:"tiet_bat_dau"`
	SoTiet       int    `json:"so_tiet"`
	SoTinChi     int    `json:"so_tin_chi"`
	MaGiangVien  string `json:"ma_giang_vien"`
	TenGiangVien string `json:"ten_giang_vien"`
}

// Date parses the entry's study day, tolerating a trailing time component.
func (c ClassEntry) Date() (time.Time, error) {
	raw := c.NgayHoc
	if idx := strings.Index(raw, "T"); idx >= 0 {
		raw = raw[:idx]
	}
	day, err := time.Parse(classDateLayout, raw)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid class date %q", c.NgayHoc)
	}
	return day, nil
}

// Week is one timetable week with its class entries.
type Week struct {
	Tuan        int          `json:"tuan"`
	NgayBatDau  string       `json:"ngay_bat_dau"`
	NgayKetThuc string       `json:"ngay_ket_thuc"`
	Classes     []ClassEntry `json:"ds_thoi_khoa_bieu"`
}

// Contains reports whether the week's date range covers the given day.
func (w Week) Contains(day time.Time) bool {
	start, err := time.Parse(DateLayout, w.NgayBatDau)
	if err != nil {
		return false
	}
	end, err := time.Parse(DateLayout, w.NgayKetThuc)
	if err != nil {
		return false
	}
	return !day.Before(start) && !day.After(end)
}

// SemesterSchedule is the full weekly timetable for one semester.
type SemesterSchedule struct {
	HocKy Semester `json:"hoc_ky"`
	Weeks []Week   `json:"ds_tuan_tkb"`
}

// WeekFor returns the week containing the given day, or nil.
func (s *SemesterSchedule) WeekFor(day time.Time) *Week {
	for i := range s.Weeks {
		if s.Weeks[i].Contains(day) {
			return &s.Weeks[i]
		}
	}
	return nil
}

// ClassesOn returns the classes scheduled on the given day, searching the
// containing week first and falling back to a scan over all weeks.
func (s *SemesterSchedule) ClassesOn(day time.Time) []ClassEntry {
	var entries []ClassEntry
	scan := func(classes []ClassEntry) {
		for _, c := range classes {
			classDay, err := c.Date()
			if err != nil {
				continue
			}
			if classDay.Equal(day) {
				entries = append(entries, c)
			}
		}
	}

	if week := s.WeekFor(day); week != nil {
		scan(week.Classes)
		return entries
	}
	for _, week := range s.Weeks {
		scan(week.Classes)
	}
	return entries
}

// Exam is a single entry from the exam schedule endpoint.
type Exam struct {
	TenMon      string `json:"ten_mon"`
	TenMonEg    string `json:"ten_mon_eg"`
	MaMon       string `json:"ma_mon"`
	KyThi       string `json:"ky_thi"`
	HinhThucThi string `json:"hinh_thuc_thi"`
	SoPhut      int    `json:"so_phut"`
	GioBatDau   string `json:"gio_bat_dau"`
	NgayThi     string `json:"ngay_thi"`
	MaPhong     string `json:"ma_phong"`
	DiaDiemThi  string `json:"dia_diem_thi"`
}

// Date parses the exam day.
func (e Exam) Date() (time.Time, error) {
	day, err := time.Parse(DateLayout, e.NgayThi)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid exam date %q", e.NgayThi)
	}
	return day, nil
}
