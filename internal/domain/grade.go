package domain

// QualityGrade is the quality tier stamped on a dropped weapon instance.
// Ordered worst to best: E, F, D, C, B, A, S, M.
type QualityGrade string

const (
	GradeE QualityGrade = "E"
	GradeF QualityGrade = "F"
	GradeD QualityGrade = "D"
	GradeC QualityGrade = "C"
	GradeB QualityGrade = "B"
	GradeA QualityGrade = "A"
	GradeS QualityGrade = "S"
	GradeM QualityGrade = "M"
)

// AllGrades lists every grade in ascending order. Draw tables and iteration
// must use this slice so ordering stays deterministic.
var AllGrades = []QualityGrade{
	GradeE, GradeF, GradeD, GradeC, GradeB, GradeA, GradeS, GradeM,
}

// gradePriceMultiplier scales an item's base price by grade.
var gradePriceMultiplier = map[QualityGrade]float64{
	GradeE: 1.0,
	GradeF: 1.2,
	GradeD: 1.5,
	GradeC: 2.0,
	GradeB: 2.5,
	GradeA: 3.0,
	GradeS: 3.5,
	GradeM: 6.0,
}

// gradePassiveMultiplier scales a passive effect's magnitude by grade.
// Deliberately flatter than the price curve.
var gradePassiveMultiplier = map[QualityGrade]float64{
	GradeE: 1.0,
	GradeF: 1.1,
	GradeD: 1.25,
	GradeC: 1.4,
	GradeB: 1.6,
	GradeA: 1.8,
	GradeS: 2.0,
	GradeM: 3.0,
}

// PriceMultiplier returns the price scaling for the grade (1.0 for unknown).
func (g QualityGrade) PriceMultiplier() float64 {
	if m, ok := gradePriceMultiplier[g]; ok {
		return m
	}
	return 1.0
}

// PassiveMultiplier returns the passive-magnitude scaling for the grade.
func (g QualityGrade) PassiveMultiplier() float64 {
	if m, ok := gradePassiveMultiplier[g]; ok {
		return m
	}
	return 1.0
}

// Valid reports whether the grade is one of the known values.
func (g QualityGrade) Valid() bool {
	_, ok := gradePriceMultiplier[g]
	return ok
}
