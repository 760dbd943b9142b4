package jurisdiction

// builtinProfiles returns the built-in US state reference data. Periods are
// for open accounts / written contracts collapsed to the class the audit
// rules use; judgment periods are listed separately because renewed
// judgments restart the clock under different statutes.
func builtinProfiles() []Profile {
	return []Profile{
		{Code: "AL", Name: "Alabama", SOLYears: sol(6, 6, 20), UsuryCapPct: 8, MedicalCapPct: 8, JudgmentCapPct: 7.5, TollingCitation: "Ala. Code § 6-2-34"},
		{Code: "AZ", Name: "Arizona", SOLYears: sol(6, 6, 10), UsuryCapPct: 10, MedicalCapPct: 10, JudgmentCapPct: 10, TollingCitation: "A.R.S. § 12-548"},
		{Code: "CA", Name: "California", SOLYears: sol(4, 4, 10), UsuryCapPct: 10, MedicalCapPct: 10, JudgmentCapPct: 10, TollingCitation: "Cal. Code Civ. Proc. § 337"},
		{Code: "CO", Name: "Colorado", SOLYears: sol(6, 6, 20), UsuryCapPct: 12, MedicalCapPct: 8, JudgmentCapPct: 8, TollingCitation: "C.R.S. § 13-80-103.5"},
		{Code: "CT", Name: "Connecticut", SOLYears: sol(6, 6, 20), UsuryCapPct: 12, MedicalCapPct: 12, JudgmentCapPct: 10, TollingCitation: "Conn. Gen. Stat. § 52-576"},
		{Code: "DE", Name: "Delaware", SOLYears: sol(3, 3, 10), UsuryCapPct: 11, MedicalCapPct: 11, JudgmentCapPct: 11, TollingCitation: "10 Del. C. § 8106"},
		{Code: "FL", Name: "Florida", SOLYears: sol(5, 5, 20), UsuryCapPct: 18, MedicalCapPct: 12, JudgmentCapPct: 11, TollingCitation: "Fla. Stat. § 95.11"},
		{Code: "GA", Name: "Georgia", SOLYears: sol(6, 4, 7), UsuryCapPct: 16, MedicalCapPct: 12, JudgmentCapPct: 12, TollingCitation: "O.C.G.A. § 9-3-24"},
		{Code: "IL", Name: "Illinois", SOLYears: sol(10, 5, 20), UsuryCapPct: 9, MedicalCapPct: 9, JudgmentCapPct: 9, TollingCitation: "735 ILCS 5/13-206"},
		{Code: "IN", Name: "Indiana", SOLYears: sol(6, 6, 20), UsuryCapPct: 8, MedicalCapPct: 8, JudgmentCapPct: 8, TollingCitation: "Ind. Code § 34-11-2-9"},
		{Code: "KY", Name: "Kentucky", SOLYears: sol(10, 5, 15), UsuryCapPct: 8, MedicalCapPct: 8, JudgmentCapPct: 6, TollingCitation: "KRS § 413.120"},
		{Code: "MA", Name: "Massachusetts", SOLYears: sol(6, 6, 20), UsuryCapPct: 20, MedicalCapPct: 12, JudgmentCapPct: 12, TollingCitation: "Mass. Gen. Laws ch. 260 § 2"},
		{Code: "MD", Name: "Maryland", SOLYears: sol(3, 3, 12), UsuryCapPct: 8, MedicalCapPct: 8, JudgmentCapPct: 10, TollingCitation: "Md. Cts. & Jud. Proc. § 5-101"},
		{Code: "MI", Name: "Michigan", SOLYears: sol(6, 6, 10), UsuryCapPct: 7, MedicalCapPct: 7, JudgmentCapPct: 7, TollingCitation: "MCL § 600.5807"},
		{Code: "MN", Name: "Minnesota", SOLYears: sol(6, 6, 10), UsuryCapPct: 8, MedicalCapPct: 8, JudgmentCapPct: 10, TollingCitation: "Minn. Stat. § 541.05"},
		{Code: "MO", Name: "Missouri", SOLYears: sol(10, 5, 10), UsuryCapPct: 9, MedicalCapPct: 9, JudgmentCapPct: 9, TollingCitation: "Mo. Rev. Stat. § 516.120"},
		{Code: "NC", Name: "North Carolina", SOLYears: sol(3, 3, 10), UsuryCapPct: 8, MedicalCapPct: 8, JudgmentCapPct: 8, TollingCitation: "N.C. Gen. Stat. § 1-52"},
		{Code: "NJ", Name: "New Jersey", SOLYears: sol(6, 6, 20), UsuryCapPct: 16, MedicalCapPct: 12, JudgmentCapPct: 12, TollingCitation: "N.J.S.A. § 2A:14-1"},
		{Code: "NM", Name: "New Mexico", SOLYears: sol(6, 4, 14), UsuryCapPct: 15, MedicalCapPct: 15, JudgmentCapPct: 8.75, TollingCitation: "NMSA § 37-1-3"},
		{Code: "NV", Name: "Nevada", SOLYears: sol(6, 4, 6), UsuryCapPct: 12, MedicalCapPct: 12, JudgmentCapPct: 12, TollingCitation: "NRS § 11.190"},
		{Code: "NY", Name: "New York", SOLYears: sol(6, 3, 20), UsuryCapPct: 16, MedicalCapPct: 9, JudgmentCapPct: 9, TollingCitation: "N.Y. C.P.L.R. § 213"},
		{Code: "OH", Name: "Ohio", SOLYears: sol(6, 6, 15), UsuryCapPct: 8, MedicalCapPct: 8, JudgmentCapPct: 5, TollingCitation: "Ohio Rev. Code § 2305.06"},
		{Code: "OR", Name: "Oregon", SOLYears: sol(6, 6, 10), UsuryCapPct: 9, MedicalCapPct: 9, JudgmentCapPct: 9, TollingCitation: "ORS § 12.080"},
		{Code: "PA", Name: "Pennsylvania", SOLYears: sol(4, 4, 4), UsuryCapPct: 6, MedicalCapPct: 6, JudgmentCapPct: 6, TollingCitation: "42 Pa. C.S. § 5525"},
		{Code: "SC", Name: "South Carolina", SOLYears: sol(3, 3, 10), UsuryCapPct: 8.75, MedicalCapPct: 8.75, JudgmentCapPct: 8.75, TollingCitation: "S.C. Code § 15-3-530"},
		{Code: "TN", Name: "Tennessee", SOLYears: sol(6, 6, 10), UsuryCapPct: 10, MedicalCapPct: 10, JudgmentCapPct: 10, TollingCitation: "Tenn. Code § 28-3-109"},
		{Code: "TX", Name: "Texas", SOLYears: sol(4, 4, 10), UsuryCapPct: 18, MedicalCapPct: 18, JudgmentCapPct: 18, TollingCitation: "Tex. Civ. Prac. & Rem. Code § 16.004"},
		{Code: "UT", Name: "Utah", SOLYears: sol(6, 6, 8), UsuryCapPct: 10, MedicalCapPct: 10, JudgmentCapPct: 10, TollingCitation: "Utah Code § 78B-2-309"},
		{Code: "VA", Name: "Virginia", SOLYears: sol(5, 5, 20), UsuryCapPct: 12, MedicalCapPct: 12, JudgmentCapPct: 6, TollingCitation: "Va. Code § 8.01-246"},
		{Code: "WA", Name: "Washington", SOLYears: sol(6, 6, 10), UsuryCapPct: 12, MedicalCapPct: 9, JudgmentCapPct: 12, TollingCitation: "RCW § 4.16.040"},
		{Code: "WI", Name: "Wisconsin", SOLYears: sol(6, 6, 20), UsuryCapPct: 12, MedicalCapPct: 12, JudgmentCapPct: 12, TollingCitation: "Wis. Stat. § 893.43"},
	}
}

func sol(general, medical, judgment int) map[DebtClass]int {
	return map[DebtClass]int{
		ClassGeneral:  general,
		ClassMedical:  medical,
		ClassJudgment: judgment,
	}
}
