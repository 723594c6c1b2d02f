package domain

// CrisisResources 固定的求助资源，每次触发干预都会完整返回（不区分严重程度）
type CrisisResources struct {
	CrisisHotline   string `json:"crisisHotline"`
	Emergency       string `json:"emergency"`
	TextLine        string `json:"textLine"`
	MaternalHotline string `json:"maternalHotline"`
	LocalResources  string `json:"localResources"`
}

// CrisisSupportMessage 返回给用户的支持性文案
const CrisisSupportMessage = "We noticed some of what you shared today sounds really heavy. " +
	"You are not alone, and support is available right now. " +
	"Please reach out to one of the resources below, or call 911 if you are in immediate danger."

// DefaultCrisisResources 返回固定资源包
func DefaultCrisisResources() CrisisResources {
	return CrisisResources{
		CrisisHotline:   "988",
		Emergency:       "911",
		TextLine:        "741741",
		MaternalHotline: "1-833-9-HELP4MOMS",
		LocalResources:  "https://www.postpartum.net/get-help/locations/",
	}
}
