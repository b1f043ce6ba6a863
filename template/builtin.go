package template

// Builtins returns fresh copies of the built-in content templates.
func Builtins() []*Template {
	return []*Template{
		{
			Name:     "product_description",
			Category: CategoryMarketing,
			Template: "Write a {tone} product description for {product_name}. " +
				"Key features: {features}. Target audience: {audience}. " +
				"Length: {length} words. Include a compelling call-to-action.",
			SystemInstructions: "You are an expert e-commerce copywriter",
			DefaultTone:        TonePersuasive,
			RequiredVariables:  []string{"product_name", "features", "audience"},
			OptionalVariables:  map[string]string{"tone": "persuasive", "length": "100"},
			MaxTokens:          300,
			Temperature:        0.7,
			Version:            DefaultVersion,
			Description:        "Generate compelling product descriptions for e-commerce",
			Tags:               []string{"e-commerce", "copywriting", "product", "marketing"},
			Enabled:            true,
		},
		{
			Name:     "social_media_post",
			Category: CategorySocialMedia,
			Template: "Create a {platform}-optimized post about {topic}. " +
				"Tone: {tone}. Include {hashtag_count} relevant hashtags " +
				"and a strong call-to-action: {cta}. " +
				"Character limit: {char_limit}.",
			SystemInstructions: "You are a social media marketing specialist",
			DefaultTone:        ToneCasual,
			RequiredVariables:  []string{"platform", "topic", "cta"},
			OptionalVariables:  map[string]string{"tone": "engaging", "hashtag_count": "3", "char_limit": "280"},
			MaxTokens:          200,
			Temperature:        0.8,
			Version:            DefaultVersion,
			Description:        "Create platform-optimized social media posts",
			Tags:               []string{"social-media", "marketing", "engagement"},
			Enabled:            true,
		},
		{
			Name:     "email_subject_line",
			Category: CategoryEmail,
			Template: "Generate {count} email subject lines for {campaign_type}. " +
				"Target audience: {audience}. Goal: {goal}. Style: {style}. " +
				"Each must be under 60 characters and avoid spam trigger words.",
			SystemInstructions: "You are an email marketing expert specializing in high open rates",
			DefaultTone:        ToneProfessional,
			RequiredVariables:  []string{"campaign_type", "audience", "goal"},
			OptionalVariables:  map[string]string{"count": "5", "style": "professional"},
			MaxTokens:          300,
			Temperature:        0.8,
			Version:            DefaultVersion,
			Description:        "Generate high-converting email subject lines",
			Tags:               []string{"email", "marketing", "conversion", "subject-lines"},
			Enabled:            true,
		},
		{
			Name:     "blog_post_outline",
			Category: CategoryContent,
			Template: `Create a detailed blog post outline for: "{title}". ` +
				"Target keyword: {keyword}. Audience: {audience}. " +
				"Include {section_count} main sections with subsections. " +
				"Add meta description and suggested internal links.",
			SystemInstructions: "You are a content strategist and SEO specialist",
			DefaultTone:        ToneAuthoritative,
			RequiredVariables:  []string{"title", "keyword", "audience"},
			OptionalVariables:  map[string]string{"section_count": "5"},
			MaxTokens:          800,
			Temperature:        0.6,
			Version:            DefaultVersion,
			Description:        "Create SEO-optimized blog post outlines",
			Tags:               []string{"blog", "seo", "content-strategy", "outline"},
			Enabled:            true,
		},
		{
			Name:     "meta_description",
			Category: CategorySEO,
			Template: "Write an SEO-optimized meta description for a page about {topic}. " +
				"Primary keyword: {keyword}. Include a call-to-action. " +
				"Must be 150-160 characters and compelling for search results.",
			SystemInstructions: "You are an SEO specialist",
			DefaultTone:        ToneProfessional,
			RequiredVariables:  []string{"topic", "keyword"},
			OptionalVariables:  map[string]string{},
			MaxTokens:          100,
			Temperature:        0.5,
			Version:            DefaultVersion,
			Description:        "Generate SEO-optimized meta descriptions",
			Tags:               []string{"seo", "meta-description", "search"},
			Enabled:            true,
		},
		{
			Name:     "tagline_slogan",
			Category: CategoryBranding,
			Template: "Generate {count} memorable taglines for {brand_name}. " +
				"Industry: {industry}. Brand personality: {personality}. " +
				"Target emotion: {emotion}. " +
				"Each must be under 10 words and unique.",
			SystemInstructions: "You are a creative branding expert",
			DefaultTone:        ToneCreative,
			RequiredVariables:  []string{"brand_name", "industry", "personality", "emotion"},
			OptionalVariables:  map[string]string{"count": "5"},
			MaxTokens:          250,
			Temperature:        0.9,
			Version:            DefaultVersion,
			Description:        "Generate memorable brand taglines and slogans",
			Tags:               []string{"branding", "tagline", "slogan", "creative"},
			Enabled:            true,
		},
		{
			Name:     "faq_generator",
			Category: CategorySupport,
			Template: "Generate {count} frequently asked questions and detailed answers " +
				"for {product_or_service}. Target audience: {audience}. " +
				"Tone: {tone}. Focus on common concerns about {focus_area}.",
			SystemInstructions: "You are a customer support expert",
			DefaultTone:        ToneHelpful,
			RequiredVariables:  []string{"product_or_service", "audience", "focus_area"},
			OptionalVariables:  map[string]string{"tone": "helpful", "count": "5"},
			MaxTokens:          1000,
			Temperature:        0.5,
			Version:            DefaultVersion,
			Description:        "Generate comprehensive FAQ content",
			Tags:               []string{"faq", "support", "customer-service", "documentation"},
			Enabled:            true,
		},
		{
			Name:     "email_newsletter",
			Category: CategoryEmail,
			Template: "Write an engaging email newsletter about {topic}. " +
				"Target: {audience}. Include: attention-grabbing subject line, " +
				"opening hook, {section_count} content sections, and clear CTA: {cta}. " +
				"Tone: {tone}.",
			SystemInstructions: "You are an email marketing copywriter",
			DefaultTone:        ToneConversational,
			RequiredVariables:  []string{"topic", "audience", "cta"},
			OptionalVariables:  map[string]string{"section_count": "3", "tone": "conversational"},
			MaxTokens:          800,
			Temperature:        0.7,
			Version:            DefaultVersion,
			Description:        "Create engaging email newsletter content",
			Tags:               []string{"email", "newsletter", "marketing", "engagement"},
			Enabled:            true,
		},
		{
			Name:     "press_release",
			Category: CategoryMarketing,
			Template: "Write a professional press release for {company_name} announcing {announcement}. " +
				"Include: headline, subheadline, dateline ({location}), lead paragraph, " +
				"{body_paragraph_count} body paragraphs, boilerplate, and contact info placeholder. " +
				"Tone: {tone}. Target media: {target_media}.",
			SystemInstructions: "You are a PR and communications specialist",
			DefaultTone:        ToneFormal,
			RequiredVariables:  []string{"company_name", "announcement", "location"},
			OptionalVariables: map[string]string{
				"body_paragraph_count": "3",
				"tone":                 "formal",
				"target_media":         "general news outlets",
			},
			MaxTokens:   800,
			Temperature: 0.4,
			Version:     DefaultVersion,
			Description: "Generate professional press releases",
			Tags:        []string{"pr", "press-release", "communications", "announcement"},
			Enabled:     true,
		},
		{
			Name:     "competitor_analysis",
			Category: CategoryMarketing,
			Template: "Create a competitive analysis comparing {company} to competitors: {competitors}. " +
				"Industry: {industry}. Focus areas: {focus_areas}. " +
				"Include: strengths, weaknesses, opportunities, and threats for each. " +
				"Analysis depth: {depth}.",
			SystemInstructions: "You are a market research and competitive intelligence analyst",
			DefaultTone:        ToneAuthoritative,
			RequiredVariables:  []string{"company", "competitors", "industry", "focus_areas"},
			OptionalVariables:  map[string]string{"depth": "comprehensive"},
			MaxTokens:          1500,
			Temperature:        0.4,
			Version:            DefaultVersion,
			Description:        "Generate competitive analysis reports",
			Tags:               []string{"analysis", "competition", "market-research", "strategy"},
			Enabled:            true,
		},
	}
}
