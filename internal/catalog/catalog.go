// Package catalog holds the static site content: the service offerings,
// analytical test capabilities, client testimonials, navigation, and contact
// details. The content is compiled in rather than stored in the database; it
// changes with releases, not at runtime.
package catalog

// Service is a consulting offering shown on the services page.
type Service struct {
	ID           string
	Title        string
	Description  string
	IconName     string
	Deliverables []string
	BestFor      string
	Timeline     string
}

// AnalyticalTest is a laboratory testing capability shown on the analytical
// testing page.
type AnalyticalTest struct {
	ID           string
	Name         string
	FullName     string
	Description  string
	Applications []string
	IconName     string
}

// Testimonial is a client quote rotated on the home page.
type Testimonial struct {
	ID     int
	Quote  string
	Author string
	Role   string
}

// NavItem is a top-level navigation entry.
type NavItem struct {
	Label string
	Path  string
}

// ContactInfo groups the publicly listed contact channels.
type ContactInfo struct {
	Phone        string
	WhatsAppLink string
	Email        string
	Address      string
	Instagram    string
}

// NavItems returns the public navigation entries in display order.
func NavItems() []NavItem {
	return []NavItem{
		{Label: "Home", Path: "/"},
		{Label: "Services", Path: "/services"},
		{Label: "About Us", Path: "/about"},
		{Label: "Contact", Path: "/contact"},
	}
}

// Contact returns the publicly listed contact details.
func Contact() ContactInfo {
	return ContactInfo{
		Phone:        "+91 6359982599",
		WhatsAppLink: "https://wa.me/916359982599",
		Email:        "contact@samprabha.com",
		Address:      "Gandhinagar, Gujarat, India",
		Instagram:    "@samprabha_scientific_services",
	}
}

// Services returns the consulting offerings in display order.
func Services() []Service {
	return []Service{
		{
			ID:           "research-topic",
			Title:        "Research Topic Selection",
			Description:  "Strategic identification of novel and feasible research topics aligned with current scientific trends.",
			IconName:     "Search",
			Deliverables: []string{"Trend Analysis", "Feasibility Report", "Novelty Check"},
			BestFor:      "PhD Scholars, Master Students",
			Timeline:     "5-7 Business Days",
		},
		{
			ID:           "thesis-writing",
			Title:        "Thesis & Dissertation",
			Description:  "Comprehensive writing assistance ensuring academic rigor, clarity, and adherence to university guidelines.",
			IconName:     "BookOpen",
			Deliverables: []string{"Chapter Drafting", "Formatting", "Plagiarism Check"},
			BestFor:      "PhD & Masters Candidates",
			Timeline:     "30-60 Business Days",
		},
		{
			ID:           "patent-guidance",
			Title:        "Patent Guidance & Filing",
			Description:  "End-to-end support in navigating the legal and technical landscape of intellectual property.",
			IconName:     "ShieldCheck",
			Deliverables: []string{"Novelty Search Report", "Draft Preparation", "Filing Assistance"},
			BestFor:      "PhD Scholars, Startups",
			Timeline:     "14-21 Business Days",
		},
		{
			ID:           "data-analysis",
			Title:        "Statistical Data Analysis",
			Description:  "Advanced statistical modeling and data interpretation using industry-standard software.",
			IconName:     "BarChart3",
			Deliverables: []string{"SPSS/ANOVA Output", "Graphical Representation", "Interpretation Report"},
			BestFor:      "Researchers, Clinical Trials",
			Timeline:     "7-10 Business Days",
		},
		{
			ID:           "manuscript",
			Title:        "Research Paper Publication",
			Description:  "Guidance on journal selection, manuscript editing, and submission processes for high-impact journals.",
			IconName:     "FileText",
			Deliverables: []string{"Journal Selection", "Peer Review Response", "Formatting"},
			BestFor:      "Faculty, Scholars",
			Timeline:     "Variable",
		},
		{
			ID:           "review-paper",
			Title:        "Review Paper Writing",
			Description:  "Systematic literature reviews and meta-analyses constructed with critical scientific insight.",
			IconName:     "Library",
			Deliverables: []string{"Literature Matrix", "Synthesized Content", "Reference Management"},
			BestFor:      "Academics",
			Timeline:     "15-20 Business Days",
		},
		{
			ID:           "presentation",
			Title:        "Conference Presentation",
			Description:  "Creating high-impact posters and slide decks for scientific conferences.",
			IconName:     "Projector",
			Deliverables: []string{"PowerPoint Deck", "Poster Design", "Speech Notes"},
			BestFor:      "Conference Attendees",
			Timeline:     "3-5 Business Days",
		},
		{
			ID:           "grant-writing",
			Title:        "Grant Proposal Writing",
			Description:  "Persuasive and technically sound grant proposals for funding agencies.",
			IconName:     "PenTool",
			Deliverables: []string{"Technical Proposal", "Budget Justification", "Admin Compliance"},
			BestFor:      "Principal Investigators",
			Timeline:     "10-15 Business Days",
		},
		{
			ID:           "lab-setup",
			Title:        "Lab Setup Consultation",
			Description:  "Strategic planning for equipment procurement and laboratory layout design.",
			IconName:     "FlaskConical",
			Deliverables: []string{"Equipment List", "Vendor Contacts", "Safety Layout"},
			BestFor:      "Institutions, Startups",
			Timeline:     "Consultation Basis",
		},
		{
			ID:           "career-counseling",
			Title:        "Scientific Career Counseling",
			Description:  "Mentorship for navigating careers in academia, industry, or research.",
			IconName:     "Users",
			Deliverables: []string{"CV Review", "Career Roadmap", "Interview Prep"},
			BestFor:      "Students, Early Career",
			Timeline:     "1-3 Sessions",
		},
	}
}

// ServiceByID looks up a service offering by its ID.
func ServiceByID(id string) (Service, bool) {
	for _, s := range Services() {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}

// AnalyticalTests returns the laboratory testing capabilities in display order.
func AnalyticalTests() []AnalyticalTest {
	return []AnalyticalTest{
		{
			ID:           "hptlc",
			Name:         "HPTLC",
			FullName:     "High Performance Thin Layer Chromatography",
			Description:  "Advanced planar chromatography technique for qualitative and quantitative analysis of complex mixtures.",
			Applications: []string{"Pharmaceutical analysis", "Herbal product testing", "Food quality control"},
			IconName:     "FlaskConical",
		},
		{
			ID:           "hplc",
			Name:         "HPLC",
			FullName:     "High Performance Liquid Chromatography",
			Description:  "Powerful analytical technique for separating, identifying, and quantifying components in a mixture.",
			Applications: []string{"Drug purity testing", "Metabolite analysis", "Quality assurance"},
			IconName:     "Activity",
		},
		{
			ID:           "dsc",
			Name:         "DSC",
			FullName:     "Differential Scanning Calorimetry",
			Description:  "Thermal analysis technique measuring heat flow associated with material transitions.",
			Applications: []string{"Polymer characterization", "Drug stability", "Thermal properties"},
			IconName:     "Atom",
		},
		{
			ID:           "xrd",
			Name:         "XRD",
			FullName:     "X-Ray Diffraction",
			Description:  "Non-destructive technique for analyzing crystalline structure and phase identification.",
			Applications: []string{"Crystal structure analysis", "Phase identification", "Material characterization"},
			IconName:     "Microscope",
		},
		{
			ID:           "lcms",
			Name:         "LC-MS",
			FullName:     "Liquid Chromatography-Mass Spectrometry",
			Description:  "Combined analytical technique for identification and quantification of chemical compounds.",
			Applications: []string{"Proteomics", "Metabolomics", "Drug discovery"},
			IconName:     "FlaskConical",
		},
		{
			ID:           "raman",
			Name:         "Raman Spectroscopy",
			FullName:     "Raman Spectroscopy",
			Description:  "Vibrational spectroscopy technique for molecular fingerprinting and structural analysis.",
			Applications: []string{"Material identification", "Pharmaceutical analysis", "Quality control"},
			IconName:     "Activity",
		},
		{
			ID:           "gc",
			Name:         "GC",
			FullName:     "Gas Chromatography",
			Description:  "Analytical technique for separating and analyzing volatile compounds in gas phase.",
			Applications: []string{"Environmental testing", "Forensic analysis", "Petrochemical analysis"},
			IconName:     "Atom",
		},
		{
			ID:           "particle-size",
			Name:         "Particle Size & Zeta Potential",
			FullName:     "Particle Size Distribution & Zeta Potential Analysis",
			Description:  "Characterization of particle size distribution and surface charge properties.",
			Applications: []string{"Nanoparticle analysis", "Colloid stability", "Drug formulation"},
			IconName:     "Microscope",
		},
		{
			ID:           "nmr",
			Name:         "NMR",
			FullName:     "Nuclear Magnetic Resonance",
			Description:  "Spectroscopic technique for determining molecular structure and dynamics.",
			Applications: []string{"Structure elucidation", "Purity analysis", "Metabolite profiling"},
			IconName:     "FlaskConical",
		},
	}
}

// Testimonials returns the client quotes in display order.
func Testimonials() []Testimonial {
	return []Testimonial{
		{
			ID:     1,
			Quote:  "Samprabha's guidance on my patent filing was exceptional. They turned a complex legal process into a streamlined strategy.",
			Author: "Dr. Rajesh K.",
			Role:   "Biotech Entrepreneur",
		},
		{
			ID:     2,
			Quote:  "The statistical analysis support I received saved my thesis. The depth of understanding they have for pharma data is unmatched.",
			Author: "Priya S.",
			Role:   "PhD Scholar, Pharmacology",
		},
		{
			ID:     3,
			Quote:  "Professional, ethical, and deeply knowledgeable. They are not just editors; they are scientific partners.",
			Author: "Dr. Alok V.",
			Role:   "Senior Researcher",
		},
		{
			ID:     4,
			Quote:  "Their research topic selection service helped me identify a unique angle for my dissertation. Highly recommended!",
			Author: "Amit P.",
			Role:   "Master's Student",
		},
		{
			ID:     5,
			Quote:  "The manuscript editing was thorough and insightful. My paper got accepted in a Q1 journal on the first submission.",
			Author: "Dr. Meera T.",
			Role:   "Assistant Professor",
		},
		{
			ID:     6,
			Quote:  "Excellent support for grant proposal writing. Their attention to detail and scientific rigor is commendable.",
			Author: "Prof. Suresh M.",
			Role:   "Principal Investigator",
		},
		{
			ID:     7,
			Quote:  "The lab setup consultation saved us months of research. Their vendor network and technical expertise are invaluable.",
			Author: "Kavita R.",
			Role:   "Lab Manager",
		},
		{
			ID:     8,
			Quote:  "Career counseling sessions were transformative. They helped me navigate the transition from academia to industry seamlessly.",
			Author: "Rohit S.",
			Role:   "Research Scientist",
		},
		{
			ID:     9,
			Quote:  "Data analysis support was exceptional. Complex statistical models were explained clearly and implemented perfectly.",
			Author: "Dr. Anjali D.",
			Role:   "Clinical Researcher",
		},
		{
			ID:     10,
			Quote:  "Review paper writing service exceeded expectations. The literature synthesis was comprehensive and well-structured.",
			Author: "Vikram N.",
			Role:   "PhD Candidate",
		},
		{
			ID:     11,
			Quote:  "Conference presentation design was stunning. The visual storytelling helped me win the best poster award.",
			Author: "Neha J.",
			Role:   "Postdoctoral Fellow",
		},
		{
			ID:     12,
			Quote:  "Their ethical approach and confidentiality standards are exemplary. I trust them with all my research projects.",
			Author: "Dr. Karthik B.",
			Role:   "Senior Scientist",
		},
	}
}
