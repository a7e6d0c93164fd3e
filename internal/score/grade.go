package score

type Grade string

const (
	GradeSS Grade = "SS"
	GradeS  Grade = "S"
	GradeA  Grade = "A"
	GradeB  Grade = "B"
	GradeC  Grade = "C"
	GradeD  Grade = "D"
	GradeF  Grade = "F"
)

var gradeFloors = []struct {
	grade    Grade
	accuracy float64
}{
	{GradeSS, 100},
	{GradeS, 95},
	{GradeA, 90},
	{GradeB, 80},
	{GradeC, 70},
}

// GradeOf letters a state by accuracy. A failed play is always F.
func GradeOf(s State) Grade {
	if s.Failed {
		return GradeF
	}
	if s.TotalJudged == 0 {
		return GradeD
	}
	for _, f := range gradeFloors {
		if s.Accuracy >= f.accuracy {
			return f.grade
		}
	}
	return GradeD
}
