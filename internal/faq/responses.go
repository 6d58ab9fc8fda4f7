package faq

var responses = map[Category][]string{
	CategoryGreeting: {
		"Hello! 👋 I'm here to help you with your resume. How can I assist you today?",
		"Hi there! Ready to help you build an amazing resume. What do you need?",
		"Welcome! Ask me anything about creating or improving your resume.",
	},
	CategoryHelp: {
		"I can help you with:\n• Creating a new resume\n• Editing existing resumes\n• Tips for writing compelling content\n• Formatting guidelines\n• Industry-specific advice\n\nWhat would you like to know more about?",
	},
	CategoryTips: {
		"Here are some quick tips for your resume:\n\n1. **Keep it concise** - Aim for 1-2 pages\n2. **Use action verbs** - 'Led', 'Created', 'Developed'\n3. **Quantify achievements** - 'Increased sales by 25%'\n4. **Tailor for each job** - Customize for each application\n5. **Proofread carefully** - No spelling or grammar errors\n\nNeed more specific advice?",
	},
	CategoryFormat: {
		"Resume format tips:\n\n• **Reverse chronological** - Most common, shows career progression\n• **Functional** - Skills-focused, good for career changers\n• **Combination** - Best of both worlds\n\nFor most job seekers, reverse chronological works best. Your recent experience matters most!",
	},
	CategorySkills: {
		"Highlighting skills effectively:\n\n• List both **technical skills** (software, languages, tools)\n• Include **soft skills** (leadership, communication)\n• Match keywords from the job description\n• Put your most relevant skills at the top\n• Don't just list - show how you used them!\n\nWould you like help identifying your key skills?",
	},
	CategoryExperience: {
		"Describing work experience:\n\n• Start with a strong action verb\n• Include specific numbers and results\n• Focus on achievements, not just duties\n• Use the STAR method (Situation, Task, Action, Result)\n• Match responsibilities to the job you want\n\nExample: 'Increased customer satisfaction by 30% through implementing a new feedback system'",
	},
	CategoryEducation: {
		"Education section tips:\n\n• Put relevant coursework if you're a recent graduate\n• Include honors (GPA above 3.5, Dean's List)\n• Add certifications and professional development\n• Leave out dates if you're worried about age discrimination\n• Only include high school if you have no college experience",
	},
	CategoryATS: {
		"ATS (Applicant Tracking System) tips:\n\n• Use standard section headings\n• Avoid tables, graphics, and headers/footers\n• Use keywords from the job posting\n• Submit as .docx or .pdf (check job posting)\n• Don't stuff keywords - use them naturally\n• Keep formatting simple and clean\n\nMost ATS systems can't read complex formatting!",
	},
	CategoryCoverLetter: {
		"Cover letter advice:\n\n• Customize for each application\n• Show you've researched the company\n• Explain WHY you're a great fit\n• Keep it to one page\n• Focus on what you can do for them\n• End with a clear call to action\n\nNeed help writing a specific cover letter?",
	},
	CategoryDefault: {
		"That's a great question! Here are some things I can help with:\n\n• Creating your first resume\n• Editing and improving existing resumes\n• Resume formatting and layout\n• Writing compelling descriptions\n• Tips for specific industries\n\nTry asking about 'tips', 'format', 'skills', 'experience', or 'ATS' for specific advice!",
	},
}
