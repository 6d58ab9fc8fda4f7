package resume

// SkillCategory groups quick-add skills in the editor.
type SkillCategory struct {
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

var SkillCategories = []SkillCategory{
	{Name: "Programming Languages", Skills: []string{"JavaScript", "Python", "Java", "C++", "C#", "Ruby", "PHP", "Swift", "Kotlin", "TypeScript"}},
	{Name: "Frontend", Skills: []string{"React", "Vue.js", "Angular", "HTML5", "CSS3", "SASS", "Tailwind CSS", "Bootstrap", "jQuery"}},
	{Name: "Backend", Skills: []string{"Node.js", "Express", "Django", "Flask", "Spring Boot", "Ruby on Rails", "ASP.NET", "FastAPI"}},
	{Name: "Database", Skills: []string{"MongoDB", "PostgreSQL", "MySQL", "Redis", "Firebase", "SQLite", "Oracle"}},
	{Name: "DevOps & Tools", Skills: []string{"Git", "Docker", "Kubernetes", "AWS", "Azure", "CI/CD", "Jenkins", "Terraform"}},
	{Name: "Other", Skills: []string{"REST API", "GraphQL", "Agile", "Scrum", "Machine Learning", "Data Analysis"}},
}

// CommonLanguages feeds the language name picker.
var CommonLanguages = []string{
	"English", "Spanish", "French", "German", "Chinese", "Japanese", "Korean", "Portuguese", "Arabic", "Hindi",
	"Russian", "Italian", "Dutch", "Polish", "Turkish", "Vietnamese", "Thai", "Indonesian", "Malay", "Urdu",
}
