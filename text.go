package main

// Static copy of the page. Everything listed in sections comes from the content API.
var (
	Headline = `Full-Stack Developer`

	Tagline = `I am a Full-Stack Developer dedicated to transforming complex challenges into seamless
	digital experiences. Specializing in the MERN Stack, I bridge the gap between bold ideas and
	high-performance software.`

	AboutHeading = `Tech Explorer & Problem Solver.`

	AboutMe = `I am a Full-Stack Developer with a solid foundation in Computer Science.
	Beyond the MERN stack, I build systems with C++ and enterprise logic in Java/C#.`

	Skills = []string{"React.js", "Node.js", "Java", "C++", "C#", "MySQL", "MongoDB", "JavaScript"}

	NavLinks = []struct{ Name, Href string }{
		{"About", "#about"},
		{"Experience", "#experience"},
		{"Education", "#education"},
		{"Projects", "#projects"},
		{"Testimonials", "#testimonials"},
		{"Contact", "#contact"},
	}

	ContactHeading = `Let's build something great.`
)
