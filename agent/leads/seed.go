package leads

import contractx "github.com/leadpilot-ai/leadpilot/agent/contract"

// seedLeads is the fixed corpus used to bootstrap an empty ledger so the
// local fallback has something to serve on a fresh install.
var seedLeads = []contractx.Lead{
	{Name: "Alice Smith", Title: "Founder", Company: "GrowthAI", Email: "alice@growthai.io", LinkedIn: "https://linkedin.com/in/alicesmith", Industry: "AI SaaS", Location: "United States", Website: "https://growthai.io"},
	{Name: "Bob Johnson", Title: "CTO", Company: "TechBoost", Email: "bob@techboost.io", LinkedIn: "https://linkedin.com/in/bobjohnson", Industry: "AI SaaS", Location: "United States", Website: "https://techboost.io"},
	{Name: "Carol Williams", Title: "CEO", Company: "DataFlow", Email: "carol@dataflow.ai", LinkedIn: "https://linkedin.com/in/carolwilliams", Industry: "AI SaaS", Location: "United Kingdom", Website: "https://dataflow.ai"},
	{Name: "David Brown", Title: "Founder", Company: "AIScale", Email: "david@aiscale.io", LinkedIn: "https://linkedin.com/in/davidbrown", Industry: "AI SaaS", Location: "Germany", Website: "https://aiscale.io"},
	{Name: "Emma Davis", Title: "CEO", Company: "NeuralWorks", Email: "emma@neuralworks.ai", LinkedIn: "https://linkedin.com/in/emmadavis", Industry: "AI SaaS", Location: "France", Website: "https://neuralworks.ai"},
	{Name: "Frank Miller", Title: "CTO", Company: "AIConnect", Email: "frank@aiconnect.io", LinkedIn: "https://linkedin.com/in/frankmiller", Industry: "AI SaaS", Location: "Canada", Website: "https://aiconnect.io"},
	{Name: "Grace Wilson", Title: "Founder", Company: "SmartAI", Email: "grace@smartai.tech", LinkedIn: "https://linkedin.com/in/gracewilson", Industry: "AI SaaS", Location: "Australia", Website: "https://smartai.tech"},
	{Name: "Henry Taylor", Title: "CEO", Company: "AIVenture", Email: "henry@aiventure.io", LinkedIn: "https://linkedin.com/in/henrytaylor", Industry: "AI SaaS", Location: "Singapore", Website: "https://aiventure.io"},
	{Name: "Irene Clark", Title: "Founder", Company: "BrainTech", Email: "irene@braintech.ai", LinkedIn: "https://linkedin.com/in/ireneclark", Industry: "AI SaaS", Location: "Netherlands", Website: "https://braintech.ai"},
	{Name: "Jack Roberts", Title: "CTO", Company: "IntelliSoft", Email: "jack@intellisoft.io", LinkedIn: "https://linkedin.com/in/jackroberts", Industry: "AI SaaS", Location: "Sweden", Website: "https://intellisoft.io"},
}
