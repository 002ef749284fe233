package curriculum

// seedChapters is the authored chapter taxonomy: 33 specific chapters plus
// 6 broad chapters spanning them. Weights reflect relative exam importance;
// unlock steps place each chapter on the 24-month countdown schedule.
var seedChapters = []Chapter{
	// Physics
	{Key: "physics_kinematics", Subject: SubjectPhysics, Name: "Kinematics", Weight: 1.2, UnlockStep: 1},
	{Key: "physics_laws_of_motion", Subject: SubjectPhysics, Name: "Laws of Motion", Weight: 1.2, UnlockStep: 2},
	{Key: "physics_work_energy_power", Subject: SubjectPhysics, Name: "Work, Energy and Power", Weight: 1.0, UnlockStep: 3},
	{Key: "physics_rotational_motion", Subject: SubjectPhysics, Name: "Rotational Motion", Weight: 1.1, UnlockStep: 5},
	{Key: "physics_gravitation", Subject: SubjectPhysics, Name: "Gravitation", Weight: 0.8, UnlockStep: 6},
	{Key: "physics_thermodynamics", Subject: SubjectPhysics, Name: "Thermodynamics", Weight: 1.1, UnlockStep: 8},
	{Key: "physics_oscillations_waves", Subject: SubjectPhysics, Name: "Oscillations and Waves", Weight: 1.0, UnlockStep: 10},
	{Key: "physics_electrostatics", Subject: SubjectPhysics, Name: "Electrostatics", Weight: 1.2, UnlockStep: 12},
	{Key: "physics_current_electricity", Subject: SubjectPhysics, Name: "Current Electricity", Weight: 1.1, UnlockStep: 14},
	{Key: "physics_magnetism", Subject: SubjectPhysics, Name: "Magnetism", Weight: 1.0, UnlockStep: 16},
	{Key: "physics_optics", Subject: SubjectPhysics, Name: "Optics", Weight: 1.1, UnlockStep: 19},
	{Key: "physics_modern_physics", Subject: SubjectPhysics, Name: "Modern Physics", Weight: 1.2, UnlockStep: 22},
	{
		Key: "physics_mechanics", Subject: SubjectPhysics, Name: "Mechanics",
		Weight: BaselineWeight, Broad: true,
		Children: []string{
			"physics_kinematics",
			"physics_laws_of_motion",
			"physics_work_energy_power",
			"physics_rotational_motion",
			"physics_gravitation",
		},
	},
	{
		Key: "physics_electromagnetism", Subject: SubjectPhysics, Name: "Electromagnetism",
		Weight: BaselineWeight, Broad: true,
		Children: []string{
			"physics_electrostatics",
			"physics_current_electricity",
			"physics_magnetism",
		},
	},

	// Chemistry
	{Key: "chemistry_mole_concept", Subject: SubjectChemistry, Name: "Mole Concept", Weight: 1.0, UnlockStep: 1},
	{Key: "chemistry_atomic_structure", Subject: SubjectChemistry, Name: "Atomic Structure", Weight: 1.1, UnlockStep: 2},
	{Key: "chemistry_periodic_table", Subject: SubjectChemistry, Name: "Periodic Table", Weight: 0.9, UnlockStep: 3},
	{Key: "chemistry_chemical_bonding", Subject: SubjectChemistry, Name: "Chemical Bonding", Weight: 1.2, UnlockStep: 4},
	{Key: "chemistry_states_of_matter", Subject: SubjectChemistry, Name: "States of Matter", Weight: 0.8, UnlockStep: 6},
	{Key: "chemistry_chemical_equilibrium", Subject: SubjectChemistry, Name: "Chemical Equilibrium", Weight: 1.1, UnlockStep: 7},
	{Key: "chemistry_electrochemistry", Subject: SubjectChemistry, Name: "Electrochemistry", Weight: 1.0, UnlockStep: 9},
	{Key: "chemistry_chemical_kinetics", Subject: SubjectChemistry, Name: "Chemical Kinetics", Weight: 1.0, UnlockStep: 11},
	{Key: "chemistry_general_organic_chemistry", Subject: SubjectChemistry, Name: "General Organic Chemistry", Weight: 1.2, UnlockStep: 13},
	{Key: "chemistry_hydrocarbons", Subject: SubjectChemistry, Name: "Hydrocarbons", Weight: 1.1, UnlockStep: 15},
	{Key: "chemistry_coordination_compounds", Subject: SubjectChemistry, Name: "Coordination Compounds", Weight: 1.0, UnlockStep: 18},
	{Key: "chemistry_p_block_elements", Subject: SubjectChemistry, Name: "p-Block Elements", Weight: 0.9, UnlockStep: 21},
	{
		Key: "chemistry_physical_chemistry", Subject: SubjectChemistry, Name: "Physical Chemistry",
		Weight: BaselineWeight, Broad: true,
		Children: []string{
			"chemistry_mole_concept",
			"chemistry_states_of_matter",
			"chemistry_chemical_equilibrium",
			"chemistry_electrochemistry",
			"chemistry_chemical_kinetics",
		},
	},
	{
		Key: "chemistry_organic_chemistry", Subject: SubjectChemistry, Name: "Organic Chemistry",
		Weight: BaselineWeight, Broad: true,
		Children: []string{
			"chemistry_general_organic_chemistry",
			"chemistry_hydrocarbons",
		},
	},

	// Mathematics
	{Key: "mathematics_quadratic_equations", Subject: SubjectMathematics, Name: "Quadratic Equations", Weight: 1.1, UnlockStep: 1},
	{Key: "mathematics_sequences_series", Subject: SubjectMathematics, Name: "Sequences and Series", Weight: 1.0, UnlockStep: 2},
	{Key: "mathematics_trigonometry", Subject: SubjectMathematics, Name: "Trigonometry", Weight: 1.2, UnlockStep: 4},
	{Key: "mathematics_complex_numbers", Subject: SubjectMathematics, Name: "Complex Numbers", Weight: 1.0, UnlockStep: 5},
	{Key: "mathematics_permutations_combinations", Subject: SubjectMathematics, Name: "Permutations and Combinations", Weight: 0.9, UnlockStep: 7},
	{Key: "mathematics_binomial_theorem", Subject: SubjectMathematics, Name: "Binomial Theorem", Weight: 0.8, UnlockStep: 8},
	{Key: "mathematics_straight_lines", Subject: SubjectMathematics, Name: "Straight Lines", Weight: 1.0, UnlockStep: 10},
	{Key: "mathematics_circles", Subject: SubjectMathematics, Name: "Circles", Weight: 1.0, UnlockStep: 12},
	{Key: "mathematics_conic_sections", Subject: SubjectMathematics, Name: "Conic Sections", Weight: 1.1, UnlockStep: 14},
	{Key: "mathematics_limits_continuity", Subject: SubjectMathematics, Name: "Limits and Continuity", Weight: 1.2, UnlockStep: 15},
	{Key: "mathematics_differentiation", Subject: SubjectMathematics, Name: "Differentiation", Weight: 1.2, UnlockStep: 17},
	{Key: "mathematics_integration", Subject: SubjectMathematics, Name: "Integration", Weight: 1.2, UnlockStep: 20},
	{Key: "mathematics_probability", Subject: SubjectMathematics, Name: "Probability", Weight: 1.1, UnlockStep: 23},
	{
		Key: "mathematics_calculus", Subject: SubjectMathematics, Name: "Calculus",
		Weight: BaselineWeight, Broad: true,
		Children: []string{
			"mathematics_limits_continuity",
			"mathematics_differentiation",
			"mathematics_integration",
		},
	},
	{
		Key: "mathematics_coordinate_geometry", Subject: SubjectMathematics, Name: "Coordinate Geometry",
		Weight: BaselineWeight, Broad: true,
		Children: []string{
			"mathematics_straight_lines",
			"mathematics_circles",
			"mathematics_conic_sections",
		},
	},
}

func init() {
	if err := validateChapters(seedChapters); err != nil {
		panic(err)
	}
	tax = buildTaxonomy(seedChapters)
}
