// Package seed ships the sample news corpus used to populate a fresh store.
package seed

import "ragchat/internal/domain"

// Corpus returns the sample news articles. Embeddings are left empty and
// computed at seed time by the configured embedder.
func Corpus() []domain.Document {
	return []domain.Document{
		{
			ID:     "news_001",
			Title:  "Tech Giant Announces New AI Chip",
			Source: "TechNews Daily",
			Content: "A leading technology company announced today the release of their latest AI accelerator chip, designed to speed up machine learning workloads. " +
				"The chip features advanced neural processing capabilities and is expected to reduce inference time by 50% compared to previous generations. " +
				"The company plans to integrate this chip into their data centers by Q2 next year.",
		},
		{
			ID:     "news_002",
			Title:  "Global Climate Summit Reaches Historic Agreement",
			Source: "World News Network",
			Content: "Nations from around the world gathered at the Global Climate Summit and agreed on ambitious targets to reduce carbon emissions. " +
				"The agreement includes commitments to transition to renewable energy and protect vulnerable ecosystems. " +
				"Industry experts predict this could accelerate the global shift towards sustainable practices.",
		},
		{
			ID:     "news_003",
			Title:  "Stock Market Hits Record High",
			Source: "Financial Times",
			Content: "The stock market reached an all-time high today, driven by strong corporate earnings reports and optimistic economic forecasts. " +
				"Technology and healthcare sectors led the gains, with investors showing increased confidence in the economic recovery. " +
				"Analysts suggest this momentum could continue into the next quarter.",
		},
		{
			ID:     "news_004",
			Title:  "New Medical Breakthrough in Cancer Treatment",
			Source: "Health & Science Weekly",
			Content: "Researchers announced a breakthrough in cancer immunotherapy, showing promising results in clinical trials. " +
				"The new treatment approach has demonstrated a 70% success rate in early stages, with minimal side effects. " +
				"The pharmaceutical company plans to file for regulatory approval within the next 18 months.",
		},
		{
			ID:     "news_005",
			Title:  "Renewable Energy Capacity Doubles",
			Source: "Green Energy Report",
			Content: "Global renewable energy capacity has doubled in the past five years, driven by falling costs and government incentives. " +
				"Solar and wind installations are now the fastest-growing energy sources worldwide. " +
				"Experts predict renewable energy will become the dominant source of electricity within the next decade.",
		},
		{
			ID:     "news_006",
			Title:  "Major Cybersecurity Incident Affects Millions",
			Source: "Security Weekly",
			Content: "A major cybersecurity breach exposed personal data of millions of users worldwide. " +
				"The affected company is working with authorities to investigate the incident and has begun notifying affected users. " +
				"This highlights the growing importance of robust cybersecurity measures in the digital age.",
		},
		{
			ID:     "news_007",
			Title:  "Space Exploration Milestone Achieved",
			Source: "Space News Today",
			Content: "A private space company successfully landed a reusable rocket for the 100th time, marking a major milestone in commercial space exploration. " +
				"The achievement demonstrates significant progress in making space travel more affordable and accessible. " +
				"Future missions are planned to establish a lunar base within five years.",
		},
		{
			ID:     "news_008",
			Title:  "Artificial Intelligence Transforms Healthcare",
			Source: "Medical Technology Journal",
			Content: "Artificial intelligence is revolutionizing healthcare through faster diagnosis and personalized treatment plans. " +
				"AI algorithms can now detect diseases from medical images with accuracy exceeding human radiologists. " +
				"Hospitals worldwide are integrating AI systems to improve patient outcomes and reduce healthcare costs.",
		},
		{
			ID:     "news_009",
			Title:  "Global Trade Tensions Ease",
			Source: "Business International",
			Content: "Trade negotiations between major economies have resulted in reduced tariffs and eased tensions. " +
				"The agreement is expected to boost global trade and economic growth. " +
				"Business leaders are optimistic about the improved market conditions.",
		},
		{
			ID:     "news_010",
			Title:  "Education System Embraces Digital Learning",
			Source: "Education Today",
			Content: "Educational institutions worldwide are increasingly adopting digital learning platforms and AI tutoring systems. " +
				"The shift has improved student engagement and personalized learning experiences. " +
				"Experts predict a permanent transformation in how education is delivered.",
		},
		{
			ID:     "news_011",
			Title:  "Quantum Computing Makes Progress",
			Source: "Tech Innovation News",
			Content: "Quantum computing researchers demonstrated new breakthroughs in error correction and qubit stability. " +
				"These advances bring practical quantum computers closer to reality. " +
				"Major tech companies are investing heavily in quantum computing research.",
		},
		{
			ID:     "news_012",
			Title:  "Transportation Industry Goes Electric",
			Source: "Auto & Transport Weekly",
			Content: "Major automotive manufacturers announce plans to transition their entire vehicle lineups to electric by 2035. " +
				"Electric vehicle sales are projected to exceed traditional combustion engines within the decade. " +
				"Infrastructure for charging stations is expanding rapidly worldwide.",
		},
		{
			ID:     "news_013",
			Title:  "Biotech Company Develops Gene Therapy",
			Source: "Biotech Breakthroughs",
			Content: "A biotech company has developed a promising gene therapy for treating rare genetic disorders. " +
				"Early trials show complete remission in affected patients. " +
				"The therapy could open new avenues for treating previously incurable genetic diseases.",
		},
		{
			ID:     "news_014",
			Title:  "Agricultural Innovation Increases Crop Yields",
			Source: "Agricultural Science",
			Content: "New farming techniques using AI and precision agriculture are increasing crop yields while reducing water usage. " +
				"Farmers using these methods report 40% higher productivity with 30% less water. " +
				"The innovation could help address global food security challenges.",
		},
		{
			ID:     "news_015",
			Title:  "AI Chatbots Transform Customer Service",
			Source: "Technology Innovation",
			Content: "AI-powered chatbots are becoming increasingly sophisticated, handling complex customer service inquiries with high accuracy. " +
				"Companies report improved customer satisfaction and reduced operational costs. " +
				"The technology continues to evolve with better natural language understanding.",
		},
	}
}
