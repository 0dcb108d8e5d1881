package schedule

import (
	"fmt"
	"strings"

	"github.com/studymate/studymate/plugin/ai/timeparse"
	"github.com/studymate/studymate/server/uis"
)

// Format renders a lookup result as Vietnamese chat text: one block per day
// with numbered class entries.
func Format(result *Result) string {
	var b strings.Builder

	for i, day := range result.Days {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(formatDay(day, result.Semester))
	}

	if result.Truncated {
		b.WriteString("\nLịch học dài hơn khoảng hiển thị, vui lòng hỏi theo từng tuần để xem đầy đủ.\n")
	}
	return b.String()
}

func formatDay(day DaySchedule, semester uis.Semester) string {
	header := timeparse.FormatDate(day.Date)

	if len(day.Classes) == 0 {
		return fmt.Sprintf("Không có lớp học nào vào %s (%s).\n", header, semester.TenHocKy)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Lịch học %s - %s:\n\n", header, semester.TenHocKy)

	for i, class := range day.Classes {
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, class.TenMon, class.MaMon)
		if class.TenMonEg != "" {
			fmt.Fprintf(&b, "   %s\n", class.TenMonEg)
		}
		fmt.Fprintf(&b, "   Tiết %d - %d\n", class.TietBatDau, class.TietBatDau+class.SoTiet-1)
		fmt.Fprintf(&b, "   Phòng %s\n", class.MaPhong)

		lecturer := class.TenGiangVien
		if lecturer == "" {
			lecturer = "Chưa cập nhật"
		}
		b.WriteString("   " + lecturer)
		if class.MaGiangVien != "" {
			fmt.Fprintf(&b, " (Mã GV: %s)", class.MaGiangVien)
		}
		b.WriteString("\n")

		if class.SoTinChi > 0 {
			fmt.Fprintf(&b, "   Số tín chỉ: %d\n", class.SoTinChi)
		}
		b.WriteString("\n")
	}
	return b.String()
}
