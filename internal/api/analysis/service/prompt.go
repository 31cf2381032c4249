package analysisService

// The labeling call reads the annotated overlay; the report call reads the
// untouched scan. Both prompts are fixed per run.
const (
	labelingMaxTokens    = 800
	labelingTemperature  = 0.0
	diagnosisMaxTokens   = 1000
	diagnosisTemperature = 0.3
)

const labelingPromptTemplate = `This is a medical MRI scan with %d numbered anatomical regions shown as colored masks.

Carefully identify each numbered region using precise medical terminology.

Respond ONLY in this format (one per line):
1: [specific anatomical structure]
2: [specific anatomical structure]
3: [specific anatomical structure]
...continue for all %d regions

Be specific - each number marks a different structure (bones, tendons, ligaments, soft tissues, organs, etc.).`

const diagnosisPrompt = `You are an experienced radiologist analyzing this MRI scan.

Provide a detailed radiology report with specific observations about each visible structure.

FINDINGS:
Systematically describe all visible anatomical structures:
- Identify the body region and imaging plane shown
- Bone structures: assess for edema, fractures, degenerative changes, alignment, lesions
- Joint spaces: assess for effusion, narrowing, erosions
- Soft tissues: muscles, tendons, ligaments (thickness, signal, tears, sprains)
- Organs (if visible): assess morphology and signal characteristics
- Vessels and nerves (if visible)
- Any edema, masses, fluid collections, or abnormal signals

IMPRESSION:
1. Identify the anatomical region being imaged
2. Prioritize key findings
3. Grade severity (mild/moderate/severe) if abnormalities present
4. Note any incidental findings

RECOMMENDATIONS:
Suggest further imaging or clinical correlation if warranted.

Be specific and detailed. If you see normal structures, explicitly state they are normal.`
