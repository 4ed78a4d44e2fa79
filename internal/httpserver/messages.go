package httpserver

// User facing messages. The product ships in Korean.
const (
	msgLoggedOut       = "로그아웃 되었습니다."
	msgLogoutFailed    = "로그아웃 중 오류가 발생했습니다."
	msgAuthRequired    = "인증이 필요합니다."
	msgCoursesFailed   = "강의 목록을 가져오는데 실패했습니다."
	msgVideoNotFound   = "비디오를 찾을 수 없습니다."
	msgNotEnrolled     = "수강 권한이 없습니다."
	msgInvalidRequest  = "잘못된 요청입니다."
	msgPlaybackFailed  = "재생 URL을 생성할 수 없습니다."
	msgVideoInfoFailed = "비디오 정보를 가져올 수 없습니다."
	msgVideoListFailed = "비디오 목록을 가져올 수 없습니다."
	msgInternal        = "서버 오류가 발생했습니다."
)
