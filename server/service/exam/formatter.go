package exam

import (
	"fmt"
	"strings"
)

// Format renders an exam lookup as Vietnamese chat text: a numbered entry
// per exam with form, time and room.
func Format(result *Result) string {
	if len(result.Exams) == 0 {
		return "Không tìm thấy lịch thi nào phù hợp với yêu cầu."
	}

	var b strings.Builder
	for i, exam := range result.Exams {
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, exam.TenMon, exam.MaMon)
		if exam.TenMonEg != "" {
			fmt.Fprintf(&b, "   %s\n", exam.TenMonEg)
		}
		if exam.KyThi != "" {
			fmt.Fprintf(&b, "   %s\n", exam.KyThi)
		}
		fmt.Fprintf(&b, "   Hình thức: %s\n", exam.HinhThucThi)
		fmt.Fprintf(&b, "   Thời gian: %s, %d phút, ngày %s\n", exam.GioBatDau, exam.SoPhut, exam.NgayThi)
		fmt.Fprintf(&b, "   Phòng thi: %s, %s\n\n", exam.MaPhong, exam.DiaDiemThi)
	}
	return b.String()
}
